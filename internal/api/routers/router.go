package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	wRouter := walletRouter()
	mux.Handle("/wallets/", wRouter)

	sRouter := subscriptionsRouter()
	mux.Handle("/subscriptions/", sRouter)

	tRouter := transactionsRouter()
	mux.Handle("/transactions/", tRouter)

	return mux
}
