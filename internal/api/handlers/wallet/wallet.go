package wallet

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"smart_wallet/internal/api/handlers"
	"smart_wallet/internal/services"
	"smart_wallet/pkg/utils"
)

var walletService *services.WalletService

func Init(s *services.WalletService) {
	walletService = s
}

func TopUpHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		WalletID string          `json:"wallet_id"`
		Amount   decimal.Decimal `json:"amount"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.WalletID == "" || !req.Amount.IsPositive() {
		utils.WriteError(w, "wallet_id and a positive amount are required", http.StatusBadRequest)
		return
	}

	txn, err := walletService.TopUp(r.Context(), req.WalletID, req.Amount)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   txn,
	})
}

func TransferHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		UserID       string          `json:"user_id"`
		FromWalletID string          `json:"from_wallet_id"`
		ToUsername   string          `json:"to_username"`
		Amount       decimal.Decimal `json:"amount"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.UserID == "" || req.FromWalletID == "" || req.ToUsername == "" || !req.Amount.IsPositive() {
		utils.WriteError(w, "user_id, from_wallet_id, to_username and a positive amount are required", http.StatusBadRequest)
		return
	}

	txn, err := walletService.TransferFunds(r.Context(), req.UserID, services.TransferRequest{
		FromWalletID: req.FromWalletID,
		ToUsername:   req.ToUsername,
		Amount:       req.Amount,
	})
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   txn,
	})
}

func UnlockWalletHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		UserID string `json:"user_id"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		utils.WriteError(w, "user_id is required", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	newWallet, err := walletService.UnlockNewWallet(r.Context(), req.UserID)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status": "success",
		"data":   newWallet,
	}, http.StatusCreated)
}

func SwitchStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		OwnerID string `json:"owner_id"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OwnerID == "" {
		utils.WriteError(w, "owner_id is required", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := walletService.SwitchStatus(r.Context(), r.PathValue("id"), req.OwnerID); err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "wallet status switched",
	})
}

func GetUserWalletsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	wallets, err := walletService.GetAllByOwner(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(wallets),
		"data":   wallets,
	})
}

// GetWalletSummaryHandler returns the user's wallets with the last four
// successful transactions touching each one.
func GetWalletSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	wallets, err := walletService.GetAllByOwner(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	transactions, err := walletService.GetLastTransactionsPerWallet(r.Context(), wallets, 4)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":       "success",
		"wallets":      wallets,
		"transactions": transactions,
	})
}
