// Package cron drives the subscription renewal loop on a fixed interval,
// independent of request handling.
package cron

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"smart_wallet/internal/models"
	"smart_wallet/internal/repositories"
	"smart_wallet/internal/services"
	"smart_wallet/pkg/utils"
)

type RenewalScheduler struct {
	subscriptions *services.SubscriptionService
	wallets       repositories.WalletRepository
	log           *logrus.Entry
}

func NewRenewalScheduler(subscriptions *services.SubscriptionService, wallets repositories.WalletRepository) *RenewalScheduler {
	return &RenewalScheduler{
		subscriptions: subscriptions,
		wallets:       wallets,
		log:           utils.Logger.WithField("component", "renewal"),
	}
}

// StartRenewalJob schedules the renewal tick. The interval defaults to 20s
// and can be overridden with RENEWAL_INTERVAL (a Go duration string).
func StartRenewalJob(scheduler *RenewalScheduler) *cron.Cron {
	interval := "20s"
	if v := os.Getenv("RENEWAL_INTERVAL"); v != "" {
		interval = v
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		scheduler.RenewSubscriptions(context.Background())
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule subscription renewal job: %v", err)
		return c
	}

	c.Start()
	utils.Logger.Infof("Cron jobs started (subscription renewal every %s)", interval)
	return c
}

// RenewSubscriptions is one scheduler tick: find every ACTIVE subscription
// past its due date and renew or retire each one. A fault in one subscription
// never aborts the rest of the tick.
func (s *RenewalScheduler) RenewSubscriptions(ctx context.Context) {
	due, err := s.subscriptions.GetDueForRenewal(ctx, time.Now())
	if err != nil {
		s.log.Errorf("failed to query subscriptions due for renewal: %v", err)
		return
	}

	if len(due) == 0 {
		s.log.Info("No subscriptions found for renewal.")
		return
	}

	for i := range due {
		s.renewOne(ctx, &due[i])
	}
}

// renewOne applies the renewal decision for a single due subscription:
//   - monthly (renewal allowed): re-purchase the same plan from the owner's
//     funding wallet; a failed charge terminates the subscription and the
//     owner drops to a fresh DEFAULT plan
//   - yearly (non-renewing): complete the subscription and open a fresh
//     DEFAULT plan
func (s *RenewalScheduler) renewOne(ctx context.Context, subscription *models.Subscription) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("subscription_id", subscription.ID).
				Errorf("panic while renewing subscription: %v", r)
		}
	}()

	ownerID := subscription.OwnerID

	if !subscription.RenewalAllowed {
		if err := s.subscriptions.MarkCompleted(ctx, subscription); err != nil {
			s.log.Errorf("failed to complete subscription %s: %v", subscription.ID, err)
			return
		}
		if _, err := s.subscriptions.CreateDefault(ctx, ownerID); err != nil {
			s.log.Errorf("failed to create default subscription for user %s: %v", ownerID, err)
		}
		return
	}

	walletID, err := s.fundingWalletID(ctx, ownerID)
	if err != nil {
		s.log.WithField("owner_id", ownerID).Errorf("skipping renewal: %v", err)
		return
	}

	txn, err := s.subscriptions.Upgrade(ctx, ownerID, subscription.Type, services.UpgradeRequest{
		Period:   subscription.Period,
		WalletID: walletID,
	})
	if err != nil {
		s.log.WithField("subscription_id", subscription.ID).Errorf("renewal failed: %v", err)
		return
	}

	if txn.Status == models.TransactionFailed {
		if err := s.subscriptions.MarkTerminated(ctx, subscription); err != nil {
			s.log.Errorf("failed to terminate subscription %s: %v", subscription.ID, err)
			return
		}
		if _, err := s.subscriptions.CreateDefault(ctx, ownerID); err != nil {
			s.log.Errorf("failed to create default subscription for user %s: %v", ownerID, err)
		}
	}
}

// fundingWalletID picks the wallet a renewal charge draws from: the owner's
// earliest-created ACTIVE wallet, or the earliest-created wallet of any
// status when none is active (the charge then fails and the downgrade path
// applies).
func (s *RenewalScheduler) fundingWalletID(ctx context.Context, ownerID string) (string, error) {
	wallets, err := s.wallets.FindAllByOwnerID(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if len(wallets) == 0 {
		return "", fmt.Errorf("user %s has no wallets", ownerID)
	}
	for i := range wallets {
		if wallets[i].Status == models.WalletActive {
			return wallets[i].ID, nil
		}
	}
	return wallets[0].ID, nil
}
