package handlers

import (
	"errors"
	"net/http"

	"smart_wallet/internal/services"
	"smart_wallet/pkg/utils"
)

// WriteDomainError maps service faults to HTTP status codes. Unknown errors
// are reported as a generic 500 without leaking details.
func WriteDomainError(w http.ResponseWriter, err error) {
	var domainErr *services.DomainError
	if !errors.As(err, &domainErr) {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrNotOwned):
		utils.WriteError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrLimitExceeded), errors.Is(err, services.ErrUsernameTaken):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrNoActiveSubscription):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	}
}
