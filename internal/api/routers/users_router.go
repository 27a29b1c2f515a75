package routers

import (
	"net/http"

	"smart_wallet/internal/api/handlers/users"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/signup", users.SignupHandler)

	mux.HandleFunc("/users/{id}", users.GetUserHandler)

	return mux
}
