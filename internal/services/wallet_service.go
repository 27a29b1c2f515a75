package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"smart_wallet/internal/models"
	"smart_wallet/internal/repositories"
	"smart_wallet/pkg/utils"
)

// LedgerEntity is the fixed counterparty name for deposits and charges that
// do not involve another user's wallet.
const LedgerEntity = "Smart Wallet Ltd"

const defaultCurrency = "EUR"

type TransferRequest struct {
	FromWalletID string          `json:"from_wallet_id"`
	ToUsername   string          `json:"to_username"`
	Amount       decimal.Decimal `json:"amount"`
}

// WalletService owns every balance mutation. Each mutation runs under a
// per-wallet lock: read current state, decide, write new state, record the
// transaction. Transfers never hold two wallet locks at once.
type WalletService struct {
	wallets       repositories.WalletRepository
	subscriptions repositories.SubscriptionRepository
	users         repositories.UserRepository
	transactions  *TransactionService
	events        PaymentPublisher
	locks         sync.Map
	log           *logrus.Entry
}

func NewWalletService(
	wallets repositories.WalletRepository,
	subscriptions repositories.SubscriptionRepository,
	users repositories.UserRepository,
	transactions *TransactionService,
	events PaymentPublisher,
) *WalletService {
	return &WalletService{
		wallets:       wallets,
		subscriptions: subscriptions,
		users:         users,
		transactions:  transactions,
		events:        events,
		log:           utils.Logger.WithField("component", "wallets"),
	}
}

func (s *WalletService) lockWallet(walletID string) func() {
	v, _ := s.locks.LoadOrStore(walletID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// InitializeFirstWallet creates the starter wallet a user receives at
// registration, seeded with 20.00 EUR.
func (s *WalletService) InitializeFirstWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	existing, err := s.wallets.FindAllByOwnerID(ctx, userID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list wallets")
	}
	if len(existing) > 0 {
		return nil, domainErrorf(ErrLimitExceeded,
			"user with id [%s] already has wallets, first wallet can't be initialized", userID)
	}

	wallet := newWallet(userID, decimal.RequireFromString("20.00"))
	if err := s.wallets.Save(ctx, wallet); err != nil {
		return nil, utils.ErrorHandler(err, "failed to save wallet")
	}

	s.log.WithFields(logrus.Fields{
		"wallet_id": wallet.ID,
		"owner_id":  userID,
	}).Infof("Successfully created new wallet with balance %.2f", wallet.Balance.InexactFloat64())
	return wallet, nil
}

// UnlockNewWallet opens an additional empty wallet, subject to the plan cap:
// DEFAULT holds 1 wallet, PREMIUM 2, ULTIMATE 3.
func (s *WalletService) UnlockNewWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	existing, err := s.wallets.FindAllByOwnerID(ctx, userID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list wallets")
	}

	active, err := s.subscriptions.FindByOwnerIDAndStatus(ctx, userID, models.SubscriptionActive)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load active subscription")
	}
	if active == nil {
		return nil, domainErrorf(ErrNoActiveSubscription,
			"no active subscription has been found for user with id [%s]", userID)
	}

	if len(existing) >= walletCap(active.Type) {
		return nil, domainErrorf(ErrLimitExceeded,
			"max wallets count reached for user with id [%s] and subscription type [%s]", userID, active.Type)
	}

	wallet := newWallet(userID, decimal.Zero)
	if err := s.wallets.Save(ctx, wallet); err != nil {
		return nil, utils.ErrorHandler(err, "failed to save wallet")
	}
	return wallet, nil
}

func walletCap(planType models.SubscriptionType) int {
	switch planType {
	case models.PlanUltimate:
		return 3
	case models.PlanPremium:
		return 2
	default:
		return 1
	}
}

func newWallet(ownerID string, balance decimal.Decimal) *models.Wallet {
	now := time.Now()
	return &models.Wallet{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Status:    models.WalletActive,
		Balance:   balance,
		Currency:  defaultCurrency,
		CreatedOn: now,
		UpdatedOn: now,
	}
}

// Charge debits a wallet. An inactive wallet or insufficient balance comes
// back as a FAILED WITHDRAWAL transaction with the balance untouched.
func (s *WalletService) Charge(ctx context.Context, userID, walletID string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	unlock := s.lockWallet(walletID)
	defer unlock()

	wallet, err := s.wallets.FindByID(ctx, walletID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load wallet")
	}
	if wallet == nil {
		return nil, domainErrorf(ErrNotFound, "wallet with id [%s] does not exist", walletID)
	}

	if wallet.Status == models.WalletInactive {
		return s.transactions.Record(ctx, userID, wallet.ID, LedgerEntity,
			amount, wallet.Balance, wallet.Currency, models.TransactionWithdrawal,
			models.TransactionFailed, description, "Inactive wallet")
	}

	if wallet.Balance.Cmp(amount) < 0 {
		return s.transactions.Record(ctx, userID, wallet.ID, LedgerEntity,
			amount, wallet.Balance, wallet.Currency, models.TransactionWithdrawal,
			models.TransactionFailed, description, "Insufficient funds")
	}

	wallet.Balance = wallet.Balance.Sub(amount)
	wallet.UpdatedOn = time.Now()
	if err := s.wallets.Save(ctx, wallet); err != nil {
		return nil, utils.ErrorHandler(err, "failed to save wallet")
	}

	s.publishPaymentEvent(ctx, userID, amount)

	return s.transactions.Record(ctx, userID, wallet.ID, LedgerEntity,
		amount, wallet.Balance, wallet.Currency, models.TransactionWithdrawal,
		models.TransactionSucceeded, description, "")
}

// publishPaymentEvent hands the successful charge to downstream listeners.
// It is outside the money path: lookup or publish problems only get logged.
func (s *WalletService) publishPaymentEvent(ctx context.Context, userID string, amount decimal.Decimal) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		s.log.WithField("user_id", userID).Warn("payment event skipped, user lookup failed")
		return
	}
	s.events.PublishPayment(user.ID, user.Email, amount, time.Now())
}

// TopUp credits a wallet from the ledger entity.
func (s *WalletService) TopUp(ctx context.Context, walletID string, amount decimal.Decimal) (*models.Transaction, error) {
	unlock := s.lockWallet(walletID)
	defer unlock()

	wallet, err := s.wallets.FindByID(ctx, walletID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load wallet")
	}
	if wallet == nil {
		return nil, domainErrorf(ErrNotFound, "wallet with id [%s] does not exist", walletID)
	}

	description := fmt.Sprintf("Top up %.2f", amount.InexactFloat64())

	if wallet.Status == models.WalletInactive {
		return s.transactions.Record(ctx, wallet.OwnerID, LedgerEntity, wallet.ID,
			amount, wallet.Balance, wallet.Currency, models.TransactionDeposit,
			models.TransactionFailed, description, "Inactive wallet")
	}

	wallet.Balance = wallet.Balance.Add(amount)
	wallet.UpdatedOn = time.Now()
	if err := s.wallets.Save(ctx, wallet); err != nil {
		return nil, utils.ErrorHandler(err, "failed to save wallet")
	}

	return s.transactions.Record(ctx, wallet.OwnerID, LedgerEntity, wallet.ID,
		amount, wallet.Balance, wallet.Currency, models.TransactionDeposit,
		models.TransactionSucceeded, description, "")
}

// TransferFunds moves money between users. The receiver is the target user's
// oldest ACTIVE wallet. A successful transfer records two entries, debit then
// credit; any failure leaves exactly one FAILED entry and both balances
// unchanged.
func (s *WalletService) TransferFunds(ctx context.Context, senderUserID string, req TransferRequest) (*models.Transaction, error) {
	sender, err := s.users.FindByID(ctx, senderUserID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load sender")
	}
	if sender == nil {
		return nil, domainErrorf(ErrNotFound, "user with id [%s] does not exist", senderUserID)
	}

	senderWallet, err := s.wallets.FindByID(ctx, req.FromWalletID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to load wallet")
	}
	if senderWallet == nil {
		return nil, domainErrorf(ErrNotFound, "wallet with id [%s] does not exist", req.FromWalletID)
	}

	description := fmt.Sprintf("Transfer from %s to %s for %.2f EUR",
		sender.Username, req.ToUsername, req.Amount.InexactFloat64())

	receiverWallet, err := s.findReceiverWallet(ctx, req.ToUsername)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to find receiver wallet")
	}
	if receiverWallet == nil {
		return s.transactions.Record(ctx, senderUserID, senderWallet.ID, req.ToUsername,
			req.Amount, senderWallet.Balance, senderWallet.Currency, models.TransactionWithdrawal,
			models.TransactionFailed, description, "Invalid criteria for transfer")
	}

	withdrawal, err := s.Charge(ctx, senderUserID, senderWallet.ID, req.Amount, description)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status == models.TransactionFailed {
		return withdrawal, nil
	}

	if err := s.creditReceiver(ctx, sender.Username, receiverWallet.ID, req.Amount, description); err != nil {
		// The debit is durable; a missing matching deposit is surfaced for
		// reconciliation rather than auto-repaired.
		s.log.WithFields(logrus.Fields{
			"withdrawal_id":      withdrawal.ID,
			"receiver_wallet_id": receiverWallet.ID,
		}).Error("transfer credit leg failed after successful debit")
		return nil, err
	}

	return withdrawal, nil
}

// findReceiverWallet picks the earliest-created ACTIVE wallet of the target
// user. Wallet listing is ordered, so the choice is deterministic.
func (s *WalletService) findReceiverWallet(ctx context.Context, username string) (*models.Wallet, error) {
	wallets, err := s.wallets.FindAllByOwnerUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	for i := range wallets {
		if wallets[i].Status == models.WalletActive {
			return &wallets[i], nil
		}
	}
	return nil, nil
}

func (s *WalletService) creditReceiver(ctx context.Context, senderUsername, receiverWalletID string, amount decimal.Decimal, description string) error {
	unlock := s.lockWallet(receiverWalletID)
	defer unlock()

	// Re-read under the lock; the snapshot used to pick the wallet is stale.
	wallet, err := s.wallets.FindByID(ctx, receiverWalletID)
	if err != nil {
		return utils.ErrorHandler(err, "failed to load receiver wallet")
	}
	if wallet == nil {
		return domainErrorf(ErrNotFound, "wallet with id [%s] does not exist", receiverWalletID)
	}

	wallet.Balance = wallet.Balance.Add(amount)
	wallet.UpdatedOn = time.Now()
	if err := s.wallets.Save(ctx, wallet); err != nil {
		return utils.ErrorHandler(err, "failed to save receiver wallet")
	}

	_, err = s.transactions.Record(ctx, wallet.OwnerID, senderUsername, wallet.ID,
		amount, wallet.Balance, wallet.Currency, models.TransactionDeposit,
		models.TransactionSucceeded, description, "")
	return err
}

// SwitchStatus toggles a wallet between ACTIVE and INACTIVE.
func (s *WalletService) SwitchStatus(ctx context.Context, walletID, ownerID string) error {
	unlock := s.lockWallet(walletID)
	defer unlock()

	wallet, err := s.wallets.FindByIDAndOwner(ctx, walletID, ownerID)
	if err != nil {
		return utils.ErrorHandler(err, "failed to load wallet")
	}
	if wallet == nil {
		return domainErrorf(ErrNotOwned,
			"wallet with id [%s] does not belong to user with id [%s]", walletID, ownerID)
	}

	if wallet.Status == models.WalletActive {
		wallet.Status = models.WalletInactive
	} else {
		wallet.Status = models.WalletActive
	}
	wallet.UpdatedOn = time.Now()
	return s.wallets.Save(ctx, wallet)
}

func (s *WalletService) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Wallet, error) {
	return s.wallets.FindAllByOwnerID(ctx, ownerID)
}

// GetLastTransactionsPerWallet returns the most recent SUCCEEDED transactions
// touching each wallet, newest first, capped at limit per wallet.
func (s *WalletService) GetLastTransactionsPerWallet(ctx context.Context, wallets []models.Wallet, limit int) (map[string][]models.Transaction, error) {
	result := make(map[string][]models.Transaction, len(wallets))
	for i := range wallets {
		all, err := s.transactions.GetAllByWallet(ctx, wallets[i].ID)
		if err != nil {
			return nil, err
		}
		var succeeded []models.Transaction
		for _, txn := range all {
			if txn.Status == models.TransactionSucceeded {
				succeeded = append(succeeded, txn)
				if len(succeeded) == limit {
					break
				}
			}
		}
		result[wallets[i].ID] = succeeded
	}
	return result, nil
}
