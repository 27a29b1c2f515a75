package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"smart_wallet/internal/models"
	"smart_wallet/internal/repositories"
	"smart_wallet/pkg/utils"
)

const transactionSubject = "Smart Wallet Transaction"

// TransactionService records immutable ledger entries and fires the
// transaction notification. A FAILED entry is a normal return value, not an
// error.
type TransactionService struct {
	transactions repositories.TransactionRepository
	notifier     Notifier
	log          *logrus.Entry
}

func NewTransactionService(transactions repositories.TransactionRepository, notifier Notifier) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		notifier:     notifier,
		log:          utils.Logger.WithField("component", "transactions"),
	}
}

func (s *TransactionService) Record(ctx context.Context, ownerID, sender, receiver string,
	amount, balanceLeft decimal.Decimal, currency string, txType models.TransactionType,
	status models.TransactionStatus, description, failureReason string) (*models.Transaction, error) {

	txn := &models.Transaction{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Sender:        sender,
		Receiver:      receiver,
		Amount:        amount,
		BalanceLeft:   balanceLeft,
		Currency:      currency,
		Type:          txType,
		Status:        status,
		Description:   description,
		FailureReason: failureReason,
		Reference:     GenerateReference("TXN"),
		CreatedOn:     time.Now(),
	}

	s.notifier.Send(ownerID, transactionSubject, notificationBody(txn))

	if err := s.transactions.Save(ctx, txn); err != nil {
		return nil, utils.ErrorHandler(err, "failed to record transaction")
	}

	s.log.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"owner_id":       ownerID,
		"type":           txn.Type,
		"status":         txn.Status,
	}).Debug("recorded transaction")

	return txn, nil
}

func notificationBody(txn *models.Transaction) string {
	if txn.Status == models.TransactionFailed {
		return fmt.Sprintf("%s transaction with amount %.2f %s failed! Reason: %s.",
			txn.Type, txn.Amount.InexactFloat64(), txn.Currency, txn.FailureReason)
	}
	return fmt.Sprintf("%s transaction with amount %.2f %s was successfully processed!",
		txn.Type, txn.Amount.InexactFloat64(), txn.Currency)
}

func (s *TransactionService) GetAllByOwner(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	return s.transactions.FindAllByOwnerID(ctx, ownerID)
}

func (s *TransactionService) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	txn, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to fetch transaction")
	}
	if txn == nil {
		return nil, domainErrorf(ErrNotFound, "transaction with id [%s] does not exist", id)
	}
	return txn, nil
}

func (s *TransactionService) GetAllByWallet(ctx context.Context, walletID string) ([]models.Transaction, error) {
	return s.transactions.FindAllByWallet(ctx, walletID)
}
