package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"smart_wallet/internal/models"
	"smart_wallet/internal/repositories/memory"
)

type sentNotification struct {
	userID  string
	subject string
	body    string
}

type sentPayment struct {
	userID string
	email  string
	amount decimal.Decimal
}

// recordingNotifier captures notifications and payment events synchronously
// so tests can assert on them without a worker pool.
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []sentNotification
	payments      []sentPayment
}

func (r *recordingNotifier) Send(userID, subject, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, sentNotification{userID: userID, subject: subject, body: body})
}

func (r *recordingNotifier) PublishPayment(userID, email string, amount decimal.Decimal, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, sentPayment{userID: userID, email: email, amount: amount})
}

func (r *recordingNotifier) sentNotifications() []sentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentNotification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

func (r *recordingNotifier) sentPayments() []sentPayment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentPayment, len(r.payments))
	copy(out, r.payments)
	return out
}

type testEnv struct {
	users         *memory.UserStore
	wallets       *memory.WalletStore
	transactions  *memory.TransactionStore
	subscriptions *memory.SubscriptionStore
	notifier      *recordingNotifier

	transactionService  *TransactionService
	walletService       *WalletService
	subscriptionService *SubscriptionService
	userService         *UserService
}

func newTestEnv() *testEnv {
	users := memory.NewUserStore()
	wallets := memory.NewWalletStore(users)
	transactions := memory.NewTransactionStore()
	subscriptions := memory.NewSubscriptionStore()
	notifier := &recordingNotifier{}

	transactionService := NewTransactionService(transactions, notifier)
	walletService := NewWalletService(wallets, subscriptions, users, transactionService, notifier)
	subscriptionService := NewSubscriptionService(subscriptions, walletService)
	userService := NewUserService(users, subscriptionService, walletService, notifier)

	return &testEnv{
		users:               users,
		wallets:             wallets,
		transactions:        transactions,
		subscriptions:       subscriptions,
		notifier:            notifier,
		transactionService:  transactionService,
		walletService:       walletService,
		subscriptionService: subscriptionService,
		userService:         userService,
	}
}

func (e *testEnv) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	now := time.Now()
	user := &models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed",
		IsActive:  true,
		CreatedOn: now,
		UpdatedOn: now,
	}
	if err := e.users.Save(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (e *testEnv) seedWallet(t *testing.T, ownerID, balance string, status models.WalletStatus) *models.Wallet {
	t.Helper()
	now := time.Now()
	wallet := &models.Wallet{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Status:    status,
		Balance:   mustDecimal(t, balance),
		Currency:  "EUR",
		CreatedOn: now,
		UpdatedOn: now,
	}
	if err := e.wallets.Save(context.Background(), wallet); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return wallet
}

func (e *testEnv) seedSubscription(t *testing.T, ownerID string, planType models.SubscriptionType,
	period models.SubscriptionPeriod, completedOn time.Time) *models.Subscription {
	t.Helper()
	subscription := &models.Subscription{
		ID:             uuid.New().String(),
		OwnerID:        ownerID,
		Status:         models.SubscriptionActive,
		Period:         period,
		Type:           planType,
		Price:          SubscriptionPrice(planType, period),
		RenewalAllowed: period == models.PeriodMonthly,
		CreatedOn:      time.Now().Add(-time.Hour),
		CompletedOn:    completedOn,
	}
	if err := e.subscriptions.Save(context.Background(), subscription); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return subscription
}

func (e *testEnv) walletBalance(t *testing.T, walletID string) decimal.Decimal {
	t.Helper()
	wallet, err := e.wallets.FindByID(context.Background(), walletID)
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if wallet == nil {
		t.Fatalf("wallet %s not found", walletID)
	}
	return wallet.Balance
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
