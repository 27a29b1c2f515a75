package transactions

import (
	"net/http"

	"smart_wallet/internal/api/handlers"
	"smart_wallet/internal/models"
	"smart_wallet/internal/services"
	"smart_wallet/pkg/utils"
)

var transactionService *services.TransactionService

func Init(s *services.TransactionService) {
	transactionService = s
}

func GetAllUserTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	transactions, err := transactionService.GetAllByOwner(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	if len(transactions) == 0 {
		utils.WriteJSON(w, map[string]interface{}{
			"status":  "success",
			"message": "no transaction found for this user",
			"data":    []models.Transaction{},
		})
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(transactions),
		"data":   transactions,
	})
}

func GetTransactionById(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	txn, err := transactionService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   txn,
	})
}
