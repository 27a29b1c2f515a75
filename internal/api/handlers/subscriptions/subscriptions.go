package subscriptions

import (
	"encoding/json"
	"net/http"

	"smart_wallet/internal/api/handlers"
	"smart_wallet/internal/models"
	"smart_wallet/internal/services"
	"smart_wallet/pkg/utils"
)

var subscriptionService *services.SubscriptionService

func Init(s *services.SubscriptionService) {
	subscriptionService = s
}

func UpgradeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		UserID   string `json:"user_id"`
		WalletID string `json:"wallet_id"`
		Type     string `json:"type"`
		Period   string `json:"period"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	planType, ok := parsePlanType(req.Type)
	if !ok {
		utils.WriteError(w, "type must be one of DEFAULT, PREMIUM, ULTIMATE", http.StatusBadRequest)
		return
	}
	period, ok := parsePeriod(req.Period)
	if !ok {
		utils.WriteError(w, "period must be MONTHLY or YEARLY", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.WalletID == "" {
		utils.WriteError(w, "user_id and wallet_id are required", http.StatusBadRequest)
		return
	}

	txn, err := subscriptionService.Upgrade(r.Context(), req.UserID, planType, services.UpgradeRequest{
		Period:   period,
		WalletID: req.WalletID,
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

func GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	subscriptions, err := subscriptionService.GetAllByOwner(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(subscriptions),
		"data":   subscriptions,
	})
}

func GetActiveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	subscription, err := subscriptionService.GetActiveByOwner(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   subscription,
	})
}

func parsePlanType(s string) (models.SubscriptionType, bool) {
	switch models.SubscriptionType(s) {
	case models.PlanDefault, models.PlanPremium, models.PlanUltimate:
		return models.SubscriptionType(s), true
	}
	return "", false
}

func parsePeriod(s string) (models.SubscriptionPeriod, bool) {
	switch models.SubscriptionPeriod(s) {
	case models.PeriodMonthly, models.PeriodYearly:
		return models.SubscriptionPeriod(s), true
	}
	return "", false
}
