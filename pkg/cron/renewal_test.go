package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"smart_wallet/internal/models"
	"smart_wallet/internal/repositories/memory"
	"smart_wallet/internal/services"
)

// nopNotifier satisfies the notification interfaces so renewal tests can run
// the full charge path without a dispatcher.
type nopNotifier struct{}

func (nopNotifier) Send(userID, subject, body string) {}

func (nopNotifier) PublishPayment(userID, email string, amount decimal.Decimal, paymentTime time.Time) {
}

type renewalEnv struct {
	users         *memory.UserStore
	wallets       *memory.WalletStore
	subscriptions *memory.SubscriptionStore

	scheduler *RenewalScheduler
}

func newRenewalEnv() *renewalEnv {
	users := memory.NewUserStore()
	wallets := memory.NewWalletStore(users)
	transactions := memory.NewTransactionStore()
	subscriptions := memory.NewSubscriptionStore()

	transactionService := services.NewTransactionService(transactions, nopNotifier{})
	walletService := services.NewWalletService(wallets, subscriptions, users, transactionService, nopNotifier{})
	subscriptionService := services.NewSubscriptionService(subscriptions, walletService)

	return &renewalEnv{
		users:         users,
		wallets:       wallets,
		subscriptions: subscriptions,
		scheduler:     NewRenewalScheduler(subscriptionService, wallets),
	}
}

func (e *renewalEnv) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	now := time.Now()
	user := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     username + "@example.com",
		IsActive:  true,
		CreatedOn: now,
		UpdatedOn: now,
	}
	if err := e.users.Save(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (e *renewalEnv) seedWallet(t *testing.T, ownerID, balance string, status models.WalletStatus, createdOn time.Time) *models.Wallet {
	t.Helper()
	wallet := &models.Wallet{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Status:    status,
		Balance:   decimal.RequireFromString(balance),
		Currency:  "EUR",
		CreatedOn: createdOn,
		UpdatedOn: createdOn,
	}
	if err := e.wallets.Save(context.Background(), wallet); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return wallet
}

func (e *renewalEnv) seedDueSubscription(t *testing.T, ownerID string, planType models.SubscriptionType,
	period models.SubscriptionPeriod) *models.Subscription {
	t.Helper()
	subscription := &models.Subscription{
		ID:             uuid.New().String(),
		OwnerID:        ownerID,
		Status:         models.SubscriptionActive,
		Period:         period,
		Type:           planType,
		Price:          services.SubscriptionPrice(planType, period),
		RenewalAllowed: period == models.PeriodMonthly,
		CreatedOn:      time.Now().AddDate(0, -1, 0),
		CompletedOn:    time.Now().Add(-time.Minute),
	}
	if err := e.subscriptions.Save(context.Background(), subscription); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return subscription
}

func (e *renewalEnv) subscriptionByID(t *testing.T, ownerID, id string) *models.Subscription {
	t.Helper()
	all, err := e.subscriptions.FindAllByOwnerID(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i]
		}
	}
	t.Fatalf("subscription %s not found", id)
	return nil
}

func (e *renewalEnv) activeSubscription(t *testing.T, ownerID string) *models.Subscription {
	t.Helper()
	subscription, err := e.subscriptions.FindByOwnerIDAndStatus(context.Background(), ownerID, models.SubscriptionActive)
	if err != nil {
		t.Fatalf("load active subscription: %v", err)
	}
	if subscription == nil {
		t.Fatalf("no active subscription for %s", ownerID)
	}
	return subscription
}

func (e *renewalEnv) walletBalance(t *testing.T, walletID string) decimal.Decimal {
	t.Helper()
	wallet, err := e.wallets.FindByID(context.Background(), walletID)
	if err != nil || wallet == nil {
		t.Fatalf("load wallet %s: %v", walletID, err)
	}
	return wallet.Balance
}

func TestRenewMonthlySubscription(t *testing.T) {
	env := newRenewalEnv()
	user := env.seedUser(t, "maria")
	wallet := env.seedWallet(t, user.ID, "100.00", models.WalletActive, time.Now())
	due := env.seedDueSubscription(t, user.ID, models.PlanPremium, models.PeriodMonthly)

	env.scheduler.RenewSubscriptions(context.Background())

	old := env.subscriptionByID(t, user.ID, due.ID)
	if old.Status != models.SubscriptionCompleted {
		t.Errorf("renewed subscription status: got %s, want COMPLETED", old.Status)
	}

	renewed := env.activeSubscription(t, user.ID)
	if renewed.Type != models.PlanPremium || renewed.Period != models.PeriodMonthly {
		t.Errorf("renewed plan: got %s/%s, want PREMIUM/MONTHLY", renewed.Type, renewed.Period)
	}
	if !renewed.CompletedOn.After(time.Now()) {
		t.Errorf("renewed subscription already due: %s", renewed.CompletedOn)
	}

	balance := env.walletBalance(t, wallet.ID)
	if !balance.Equal(decimal.RequireFromString("80.01")) {
		t.Errorf("balance after renewal: got %s, want 80.01", balance)
	}
}

func TestRenewInsufficientFundsDowngradesToDefault(t *testing.T) {
	env := newRenewalEnv()
	user := env.seedUser(t, "maria")
	wallet := env.seedWallet(t, user.ID, "5.00", models.WalletActive, time.Now())
	due := env.seedDueSubscription(t, user.ID, models.PlanPremium, models.PeriodMonthly)

	env.scheduler.RenewSubscriptions(context.Background())

	old := env.subscriptionByID(t, user.ID, due.ID)
	if old.Status != models.SubscriptionTerminated {
		t.Errorf("unpaid subscription status: got %s, want TERMINATED", old.Status)
	}

	downgraded := env.activeSubscription(t, user.ID)
	if downgraded.Type != models.PlanDefault {
		t.Errorf("downgrade plan: got %s, want DEFAULT", downgraded.Type)
	}

	balance := env.walletBalance(t, wallet.ID)
	if !balance.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("balance changed by failed renewal: got %s, want 5.00", balance)
	}
}

func TestRenewYearlySubscriptionCompletesWithoutCharge(t *testing.T) {
	env := newRenewalEnv()
	user := env.seedUser(t, "maria")
	wallet := env.seedWallet(t, user.ID, "1000.00", models.WalletActive, time.Now())
	due := env.seedDueSubscription(t, user.ID, models.PlanUltimate, models.PeriodYearly)

	env.scheduler.RenewSubscriptions(context.Background())

	old := env.subscriptionByID(t, user.ID, due.ID)
	if old.Status != models.SubscriptionCompleted {
		t.Errorf("yearly subscription status: got %s, want COMPLETED", old.Status)
	}

	downgraded := env.activeSubscription(t, user.ID)
	if downgraded.Type != models.PlanDefault {
		t.Errorf("plan after yearly expiry: got %s, want DEFAULT", downgraded.Type)
	}

	balance := env.walletBalance(t, wallet.ID)
	if !balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("yearly expiry should not charge: got %s, want 1000.00", balance)
	}
}

func TestRenewEmptyTick(t *testing.T) {
	env := newRenewalEnv()
	user := env.seedUser(t, "maria")
	env.seedWallet(t, user.ID, "20.00", models.WalletActive, time.Now())

	env.scheduler.RenewSubscriptions(context.Background())

	all, err := env.subscriptions.FindAllByOwnerID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("empty tick created subscriptions: %d", len(all))
	}
}

func TestRenewSkipsBrokenOwnerAndContinues(t *testing.T) {
	env := newRenewalEnv()

	// first owner has no wallets at all, so their renewal cannot proceed
	broken := env.seedUser(t, "aaa-broken")
	brokenDue := env.seedDueSubscription(t, broken.ID, models.PlanPremium, models.PeriodMonthly)

	healthy := env.seedUser(t, "maria")
	env.seedWallet(t, healthy.ID, "100.00", models.WalletActive, time.Now())
	healthyDue := env.seedDueSubscription(t, healthy.ID, models.PlanPremium, models.PeriodMonthly)

	env.scheduler.RenewSubscriptions(context.Background())

	untouched := env.subscriptionByID(t, broken.ID, brokenDue.ID)
	if untouched.Status != models.SubscriptionActive {
		t.Errorf("walletless owner subscription: got %s, want ACTIVE", untouched.Status)
	}

	renewed := env.subscriptionByID(t, healthy.ID, healthyDue.ID)
	if renewed.Status != models.SubscriptionCompleted {
		t.Errorf("healthy owner subscription: got %s, want COMPLETED", renewed.Status)
	}
}

func TestFundingWalletPrefersActive(t *testing.T) {
	env := newRenewalEnv()
	user := env.seedUser(t, "maria")

	inactive := env.seedWallet(t, user.ID, "500.00", models.WalletInactive, time.Now().Add(-time.Hour))
	active := env.seedWallet(t, user.ID, "100.00", models.WalletActive, time.Now())
	env.seedDueSubscription(t, user.ID, models.PlanPremium, models.PeriodMonthly)

	env.scheduler.RenewSubscriptions(context.Background())

	if got := env.walletBalance(t, active.ID); !got.Equal(decimal.RequireFromString("80.01")) {
		t.Errorf("active wallet balance: got %s, want 80.01", got)
	}
	if got := env.walletBalance(t, inactive.ID); !got.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("inactive wallet balance changed: got %s", got)
	}
}
