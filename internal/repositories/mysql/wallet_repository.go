package mysql

import (
	"context"
	"database/sql"

	"smart_wallet/internal/models"
)

type WalletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Save(ctx context.Context, wallet *models.Wallet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (id, owner_id, status, balance, currency, created_on, updated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status), balance = VALUES(balance), updated_on = VALUES(updated_on)`,
		wallet.ID, wallet.OwnerID, wallet.Status, wallet.Balance, wallet.Currency, wallet.CreatedOn, wallet.UpdatedOn)
	return err
}

func (r *WalletRepository) FindByID(ctx context.Context, id string) (*models.Wallet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, status, balance, currency, created_on, updated_on
		FROM wallets WHERE id = ?`, id)
	return scanWallet(row)
}

func (r *WalletRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Wallet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, status, balance, currency, created_on, updated_on
		FROM wallets WHERE id = ? AND owner_id = ?`, id, ownerID)
	return scanWallet(row)
}

func (r *WalletRepository) FindAllByOwnerID(ctx context.Context, ownerID string) ([]models.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, status, balance, currency, created_on, updated_on
		FROM wallets WHERE owner_id = ?
		ORDER BY created_on ASC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWallets(rows)
}

func (r *WalletRepository) FindAllByOwnerUsername(ctx context.Context, username string) ([]models.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT w.id, w.owner_id, w.status, w.balance, w.currency, w.created_on, w.updated_on
		FROM wallets w
		JOIN users u ON w.owner_id = u.id
		WHERE u.username = ?
		ORDER BY w.created_on ASC, w.id ASC`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWallets(rows)
}

func scanWallet(row *sql.Row) (*models.Wallet, error) {
	var wallet models.Wallet
	err := row.Scan(&wallet.ID, &wallet.OwnerID, &wallet.Status, &wallet.Balance,
		&wallet.Currency, &wallet.CreatedOn, &wallet.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func collectWallets(rows *sql.Rows) ([]models.Wallet, error) {
	var wallets []models.Wallet
	for rows.Next() {
		var wallet models.Wallet
		if err := rows.Scan(&wallet.ID, &wallet.OwnerID, &wallet.Status, &wallet.Balance,
			&wallet.Currency, &wallet.CreatedOn, &wallet.UpdatedOn); err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}
	return wallets, rows.Err()
}
