package mysql

import (
	"context"
	"database/sql"

	"smart_wallet/internal/models"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Save inserts a new ledger entry. Transactions are immutable, so there is
// no update path.
func (r *TransactionRepository) Save(ctx context.Context, txn *models.Transaction) error {
	var failureReason interface{}
	if txn.FailureReason != "" {
		failureReason = txn.FailureReason
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, owner_id, sender, receiver, amount, balance_left, currency,
			 type, status, description, failure_reason, reference, created_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.OwnerID, txn.Sender, txn.Receiver, txn.Amount, txn.BalanceLeft,
		txn.Currency, txn.Type, txn.Status, txn.Description, failureReason,
		txn.Reference, txn.CreatedOn)
	return err
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransaction+` WHERE id = ?`, id)

	var txn models.Transaction
	var failureReason sql.NullString
	err := row.Scan(&txn.ID, &txn.OwnerID, &txn.Sender, &txn.Receiver, &txn.Amount,
		&txn.BalanceLeft, &txn.Currency, &txn.Type, &txn.Status, &txn.Description,
		&failureReason, &txn.Reference, &txn.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	txn.FailureReason = failureReason.String
	return &txn, nil
}

func (r *TransactionRepository) FindAllByOwnerID(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTransaction+` WHERE owner_id = ? ORDER BY created_on DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *TransactionRepository) FindAllByWallet(ctx context.Context, walletID string) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTransaction+` WHERE sender = ? OR receiver = ? ORDER BY created_on DESC, id DESC`,
		walletID, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

const selectTransaction = `
	SELECT id, owner_id, sender, receiver, amount, balance_left, currency,
	       type, status, description, failure_reason, reference, created_on
	FROM transactions`

func collectTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		var failureReason sql.NullString
		if err := rows.Scan(&txn.ID, &txn.OwnerID, &txn.Sender, &txn.Receiver, &txn.Amount,
			&txn.BalanceLeft, &txn.Currency, &txn.Type, &txn.Status, &txn.Description,
			&failureReason, &txn.Reference, &txn.CreatedOn); err != nil {
			return nil, err
		}
		txn.FailureReason = failureReason.String
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}
