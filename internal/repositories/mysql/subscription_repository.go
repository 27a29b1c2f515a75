package mysql

import (
	"context"
	"database/sql"
	"time"

	"smart_wallet/internal/models"
)

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Save(ctx context.Context, subscription *models.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions
			(id, owner_id, status, period, type, price, renewal_allowed, created_on, completed_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status), completed_on = VALUES(completed_on)`,
		subscription.ID, subscription.OwnerID, subscription.Status, subscription.Period,
		subscription.Type, subscription.Price, subscription.RenewalAllowed,
		subscription.CreatedOn, subscription.CompletedOn)
	return err
}

func (r *SubscriptionRepository) FindByOwnerIDAndStatus(ctx context.Context, ownerID string, status models.SubscriptionStatus) (*models.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		selectSubscription+` WHERE owner_id = ? AND status = ? ORDER BY created_on DESC LIMIT 1`,
		ownerID, status)

	var subscription models.Subscription
	err := row.Scan(&subscription.ID, &subscription.OwnerID, &subscription.Status,
		&subscription.Period, &subscription.Type, &subscription.Price,
		&subscription.RenewalAllowed, &subscription.CreatedOn, &subscription.CompletedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *SubscriptionRepository) FindAllByOwnerID(ctx context.Context, ownerID string) ([]models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		selectSubscription+` WHERE owner_id = ? ORDER BY created_on DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

func (r *SubscriptionRepository) FindAllDueForRenewal(ctx context.Context, now time.Time) ([]models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		selectSubscription+` WHERE status = ? AND completed_on <= ?`,
		models.SubscriptionActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

const selectSubscription = `
	SELECT id, owner_id, status, period, type, price, renewal_allowed, created_on, completed_on
	FROM subscriptions`

func collectSubscriptions(rows *sql.Rows) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	for rows.Next() {
		var subscription models.Subscription
		if err := rows.Scan(&subscription.ID, &subscription.OwnerID, &subscription.Status,
			&subscription.Period, &subscription.Type, &subscription.Price,
			&subscription.RenewalAllowed, &subscription.CreatedOn, &subscription.CompletedOn); err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, rows.Err()
}
