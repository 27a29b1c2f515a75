package users

import (
	"encoding/json"
	"net/http"

	"smart_wallet/internal/api/handlers"
	"smart_wallet/internal/services"
	"smart_wallet/pkg/utils"
)

var userService *services.UserService

func Init(s *services.UserService) {
	userService = s
}

func SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req services.RegisterRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.WriteError(w, "username, email and password are required", http.StatusBadRequest)
		return
	}

	user, err := userService.Register(r.Context(), req)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSONStatus(w, map[string]interface{}{
		"status": "success",
		"data":   user,
	}, http.StatusCreated)
}

func GetUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := userService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   user,
	})
}
