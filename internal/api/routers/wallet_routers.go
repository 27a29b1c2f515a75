package routers

import (
	"net/http"

	"smart_wallet/internal/api/handlers/wallet"
)

func walletRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/wallets/topup", wallet.TopUpHandler)

	mux.HandleFunc("/wallets/transfer", wallet.TransferHandler)

	mux.HandleFunc("/wallets/unlock", wallet.UnlockWalletHandler)

	mux.HandleFunc("/wallets/{id}/status", wallet.SwitchStatusHandler)

	mux.HandleFunc("/wallets/user/{id}", wallet.GetUserWalletsHandler)

	mux.HandleFunc("/wallets/user/{id}/summary", wallet.GetWalletSummaryHandler)

	return mux
}
