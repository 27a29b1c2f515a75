package routers

import (
	"net/http"

	"smart_wallet/internal/api/handlers/transactions"
)

func transactionsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/transactions/user/{id}", transactions.GetAllUserTransactions)

	mux.HandleFunc("/transactions/{id}", transactions.GetTransactionById)

	return mux
}
