package routers

import (
	"net/http"

	"smart_wallet/internal/api/handlers/subscriptions"
)

func subscriptionsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/subscriptions/upgrade", subscriptions.UpgradeHandler)

	mux.HandleFunc("/subscriptions/history/{id}", subscriptions.GetHistoryHandler)

	mux.HandleFunc("/subscriptions/active/{id}", subscriptions.GetActiveHandler)

	return mux
}
