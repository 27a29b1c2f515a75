package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"smart_wallet/internal/models"
	"smart_wallet/internal/repositories"
	"smart_wallet/pkg/utils"
)

type UpgradeRequest struct {
	Period   models.SubscriptionPeriod `json:"period"`
	WalletID string                    `json:"wallet_id"`
}

// SubscriptionService owns the subscription lifecycle: creation, paid
// upgrades and the completed/terminated transitions the renewal scheduler
// applies.
type SubscriptionService struct {
	subscriptions repositories.SubscriptionRepository
	wallet        *WalletService
	log           *logrus.Entry
}

func NewSubscriptionService(subscriptions repositories.SubscriptionRepository, wallet *WalletService) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		wallet:        wallet,
		log:           utils.Logger.WithField("component", "subscriptions"),
	}
}

// CreateDefault opens the free monthly DEFAULT subscription every user holds
// when no paid plan is active.
func (s *SubscriptionService) CreateDefault(ctx context.Context, ownerID string) (*models.Subscription, error) {
	now := time.Now()
	subscription := &models.Subscription{
		ID:             uuid.New().String(),
		OwnerID:        ownerID,
		Status:         models.SubscriptionActive,
		Period:         models.PeriodMonthly,
		Type:           models.PlanDefault,
		Price:          decimal.RequireFromString("0.00"),
		RenewalAllowed: true,
		CreatedOn:      now,
		CompletedOn:    now.AddDate(0, 1, 0),
	}
	if err := s.subscriptions.Save(ctx, subscription); err != nil {
		return nil, utils.ErrorHandler(err, "failed to save subscription")
	}

	s.log.WithFields(logrus.Fields{
		"subscription_id": subscription.ID,
		"owner_id":        ownerID,
		"type":            subscription.Type,
	}).Info("Successfully created new subscription")
	return subscription, nil
}

// Upgrade charges the wallet for the requested plan and, only if the charge
// succeeds, swaps the active subscription for a new one. A failed charge
// comes back unchanged and the current subscription is untouched.
func (s *SubscriptionService) Upgrade(ctx context.Context, userID string, planType models.SubscriptionType, req UpgradeRequest) (*models.Transaction, error) {
	current, err := s.subscriptions.FindByOwnerIDAndStatus(ctx, userID, models.SubscriptionActive)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load active subscription")
	}
	if current == nil {
		return nil, domainErrorf(ErrNoActiveSubscription,
			"no active subscription has been found for user with id [%s]", userID)
	}

	price := SubscriptionPrice(planType, req.Period)
	chargeDescription := fmt.Sprintf("Purchase of %s %s subscription",
		titleCase(string(req.Period)), titleCase(string(planType)))

	charge, err := s.wallet.Charge(ctx, userID, req.WalletID, price, chargeDescription)
	if err != nil {
		return nil, err
	}
	if charge.Status == models.TransactionFailed {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"type":    planType,
		}).Warn("Failed charge for subscription")
		return charge, nil
	}

	now := time.Now()
	completedOn := now.AddDate(1, 0, 0)
	if req.Period == models.PeriodMonthly {
		completedOn = now.AddDate(0, 1, 0)
	}

	newSubscription := &models.Subscription{
		ID:             uuid.New().String(),
		OwnerID:        userID,
		Status:         models.SubscriptionActive,
		Period:         req.Period,
		Type:           planType,
		Price:          price,
		RenewalAllowed: req.Period == models.PeriodMonthly,
		CreatedOn:      now,
		CompletedOn:    completedOn,
	}
	if err := s.subscriptions.Save(ctx, newSubscription); err != nil {
		return nil, utils.ErrorHandler(err, "failed to save subscription")
	}

	current.Status = models.SubscriptionCompleted
	current.CompletedOn = now
	if err := s.subscriptions.Save(ctx, current); err != nil {
		return nil, utils.ErrorHandler(err, "failed to complete previous subscription")
	}

	return charge, nil
}

// SubscriptionPrice is the fixed pricing table. DEFAULT is free; paid plans
// price by period.
func SubscriptionPrice(planType models.SubscriptionType, period models.SubscriptionPeriod) decimal.Decimal {
	switch planType {
	case models.PlanPremium:
		if period == models.PeriodYearly {
			return decimal.RequireFromString("199.99")
		}
		return decimal.RequireFromString("19.99")
	case models.PlanUltimate:
		if period == models.PeriodYearly {
			return decimal.RequireFromString("499.99")
		}
		return decimal.RequireFromString("49.99")
	default:
		return decimal.Zero
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

func (s *SubscriptionService) GetDueForRenewal(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	return s.subscriptions.FindAllDueForRenewal(ctx, now)
}

func (s *SubscriptionService) GetActiveByOwner(ctx context.Context, ownerID string) (*models.Subscription, error) {
	subscription, err := s.subscriptions.FindByOwnerIDAndStatus(ctx, ownerID, models.SubscriptionActive)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load active subscription")
	}
	if subscription == nil {
		return nil, domainErrorf(ErrNoActiveSubscription,
			"no active subscription has been found for user with id [%s]", ownerID)
	}
	return subscription, nil
}

func (s *SubscriptionService) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Subscription, error) {
	return s.subscriptions.FindAllByOwnerID(ctx, ownerID)
}

func (s *SubscriptionService) MarkCompleted(ctx context.Context, subscription *models.Subscription) error {
	subscription.Status = models.SubscriptionCompleted
	subscription.CompletedOn = time.Now()
	return s.subscriptions.Save(ctx, subscription)
}

func (s *SubscriptionService) MarkTerminated(ctx context.Context, subscription *models.Subscription) error {
	subscription.Status = models.SubscriptionTerminated
	subscription.CompletedOn = time.Now()
	return s.subscriptions.Save(ctx, subscription)
}
