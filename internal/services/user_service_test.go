package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"smart_wallet/internal/models"
)

func TestRegisterProvisionsNewAccount(t *testing.T) {
	env := newTestEnv()

	user, err := env.userService.Register(context.Background(), RegisterRequest{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "s3cret-passw0rd",
		Country:  "Bulgaria",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, err := env.users.FindByUsername(context.Background(), "maria")
	if err != nil || stored == nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if !stored.IsActive {
		t.Error("new user should be active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-passw0rd")); err != nil {
		t.Errorf("password hash does not verify: %v", err)
	}

	subscription, err := env.subscriptions.FindByOwnerIDAndStatus(context.Background(), user.ID, models.SubscriptionActive)
	if err != nil || subscription == nil {
		t.Fatalf("no active subscription after registration: %v", err)
	}
	if subscription.Type != models.PlanDefault || subscription.Period != models.PeriodMonthly {
		t.Errorf("starter subscription: got %s/%s, want DEFAULT/MONTHLY", subscription.Type, subscription.Period)
	}
	if !subscription.Price.IsZero() {
		t.Errorf("starter subscription price: got %s, want 0", subscription.Price)
	}

	wallets, err := env.wallets.FindAllByOwnerID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list wallets: %v", err)
	}
	if len(wallets) != 1 {
		t.Fatalf("wallets after registration: got %d, want 1", len(wallets))
	}
	if !wallets[0].Balance.Equal(mustDecimal(t, "20.00")) {
		t.Errorf("starter balance: got %s, want 20.00", wallets[0].Balance)
	}
	if wallets[0].Status != models.WalletActive {
		t.Errorf("starter wallet status: got %s, want ACTIVE", wallets[0].Status)
	}

	sent := env.notifier.sentNotifications()
	if len(sent) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(sent))
	}
	if sent[0].subject != "Welcome to Smart Wallet" {
		t.Errorf("welcome subject: got %q", sent[0].subject)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "maria")

	_, err := env.userService.Register(context.Background(), RegisterRequest{
		Username: "maria",
		Email:    "other@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("want ErrUsernameTaken, got %v", err)
	}
}

func TestGetByIDUnknownUser(t *testing.T) {
	env := newTestEnv()

	_, err := env.userService.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
