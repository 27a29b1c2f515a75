// Package memory holds map-backed implementations of the repository
// contracts. They back the service tests and local development runs where a
// MySQL instance is not available.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"smart_wallet/internal/models"
)

type WalletStore struct {
	mu      sync.RWMutex
	wallets map[string]models.Wallet
	users   *UserStore
}

// NewWalletStore builds a wallet store. The user store is consulted to
// resolve owner usernames, the way the SQL implementation joins on users.
func NewWalletStore(users *UserStore) *WalletStore {
	return &WalletStore{
		wallets: make(map[string]models.Wallet),
		users:   users,
	}
}

func (s *WalletStore) Save(_ context.Context, wallet *models.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[wallet.ID] = *wallet
	return nil
}

func (s *WalletStore) FindByID(_ context.Context, id string) (*models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if wallet, ok := s.wallets[id]; ok {
		return &wallet, nil
	}
	return nil, nil
}

func (s *WalletStore) FindByIDAndOwner(_ context.Context, id, ownerID string) (*models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if wallet, ok := s.wallets[id]; ok && wallet.OwnerID == ownerID {
		return &wallet, nil
	}
	return nil, nil
}

func (s *WalletStore) FindAllByOwnerID(_ context.Context, ownerID string) ([]models.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var wallets []models.Wallet
	for _, wallet := range s.wallets {
		if wallet.OwnerID == ownerID {
			wallets = append(wallets, wallet)
		}
	}
	sortWalletsOldestFirst(wallets)
	return wallets, nil
}

func (s *WalletStore) FindAllByOwnerUsername(ctx context.Context, username string) ([]models.Wallet, error) {
	owner, err := s.users.FindByUsername(ctx, username)
	if err != nil || owner == nil {
		return nil, err
	}
	return s.FindAllByOwnerID(ctx, owner.ID)
}

func sortWalletsOldestFirst(wallets []models.Wallet) {
	sort.Slice(wallets, func(i, j int) bool {
		if wallets[i].CreatedOn.Equal(wallets[j].CreatedOn) {
			return wallets[i].ID < wallets[j].ID
		}
		return wallets[i].CreatedOn.Before(wallets[j].CreatedOn)
	})
}

type TransactionStore struct {
	mu           sync.RWMutex
	transactions []models.Transaction
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

func (s *TransactionStore) Save(_ context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, *txn)
	return nil
}

func (s *TransactionStore) FindByID(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			txn := s.transactions[i]
			return &txn, nil
		}
	}
	return nil, nil
}

func (s *TransactionStore) FindAllByOwnerID(_ context.Context, ownerID string) ([]models.Transaction, error) {
	return s.filter(func(txn *models.Transaction) bool { return txn.OwnerID == ownerID })
}

func (s *TransactionStore) FindAllByWallet(_ context.Context, walletID string) ([]models.Transaction, error) {
	return s.filter(func(txn *models.Transaction) bool {
		return txn.Sender == walletID || txn.Receiver == walletID
	})
}

// All returns every recorded entry in insertion order.
func (s *TransactionStore) All() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

func (s *TransactionStore) filter(keep func(*models.Transaction) bool) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Transaction
	for i := range s.transactions {
		if keep(&s.transactions[i]) {
			out = append(out, s.transactions[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedOn.After(out[j].CreatedOn)
	})
	return out, nil
}

type SubscriptionStore struct {
	mu            sync.RWMutex
	subscriptions map[string]models.Subscription
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subscriptions: make(map[string]models.Subscription)}
}

func (s *SubscriptionStore) Save(_ context.Context, subscription *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[subscription.ID] = *subscription
	return nil
}

func (s *SubscriptionStore) FindByOwnerIDAndStatus(_ context.Context, ownerID string, status models.SubscriptionStatus) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var newest *models.Subscription
	for _, subscription := range s.subscriptions {
		if subscription.OwnerID != ownerID || subscription.Status != status {
			continue
		}
		if newest == nil || subscription.CreatedOn.After(newest.CreatedOn) {
			match := subscription
			newest = &match
		}
	}
	return newest, nil
}

func (s *SubscriptionStore) FindAllByOwnerID(_ context.Context, ownerID string) ([]models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Subscription
	for _, subscription := range s.subscriptions {
		if subscription.OwnerID == ownerID {
			out = append(out, subscription)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedOn.After(out[j].CreatedOn) })
	return out, nil
}

func (s *SubscriptionStore) FindAllDueForRenewal(_ context.Context, now time.Time) ([]models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var due []models.Subscription
	for _, subscription := range s.subscriptions {
		if subscription.Status == models.SubscriptionActive && !subscription.CompletedOn.After(now) {
			due = append(due, subscription)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			match := user
			return &match, nil
		}
	}
	return nil, nil
}

func (s *UserStore) FindAll(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []models.User
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedOn.Before(users[j].CreatedOn) })
	return users, nil
}
