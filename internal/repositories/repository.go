// Package repositories defines the persistence contracts the engines depend
// on. Find methods return (nil, nil) when no row matches; errors are reserved
// for storage failures.
package repositories

import (
	"context"
	"time"

	"smart_wallet/internal/models"
)

type WalletRepository interface {
	Save(ctx context.Context, wallet *models.Wallet) error

	FindByID(ctx context.Context, id string) (*models.Wallet, error)

	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Wallet, error)

	// FindAllByOwnerID returns the owner's wallets ordered oldest first.
	FindAllByOwnerID(ctx context.Context, ownerID string) ([]models.Wallet, error)

	// FindAllByOwnerUsername returns the named user's wallets ordered oldest first.
	FindAllByOwnerUsername(ctx context.Context, username string) ([]models.Wallet, error)
}

type TransactionRepository interface {
	Save(ctx context.Context, txn *models.Transaction) error

	FindByID(ctx context.Context, id string) (*models.Transaction, error)

	// FindAllByOwnerID returns the owner's transactions newest first.
	FindAllByOwnerID(ctx context.Context, ownerID string) ([]models.Transaction, error)

	// FindAllByWallet returns transactions where the wallet id appears as
	// sender or receiver, newest first.
	FindAllByWallet(ctx context.Context, walletID string) ([]models.Transaction, error)
}

type SubscriptionRepository interface {
	Save(ctx context.Context, subscription *models.Subscription) error

	FindByOwnerIDAndStatus(ctx context.Context, ownerID string, status models.SubscriptionStatus) (*models.Subscription, error)

	// FindAllByOwnerID returns the owner's subscriptions newest first.
	FindAllByOwnerID(ctx context.Context, ownerID string) ([]models.Subscription, error)

	// FindAllDueForRenewal returns ACTIVE subscriptions whose due date has
	// passed at the given instant.
	FindAllDueForRenewal(ctx context.Context, now time.Time) ([]models.Subscription, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *models.User) error

	FindByID(ctx context.Context, id string) (*models.User, error)

	FindByUsername(ctx context.Context, username string) (*models.User, error)

	FindAll(ctx context.Context) ([]models.User, error)
}
