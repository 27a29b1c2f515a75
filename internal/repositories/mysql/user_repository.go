package mysql

import (
	"context"
	"database/sql"

	"smart_wallet/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password, country, is_active, created_on, updated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE email = VALUES(email), password = VALUES(password),
			country = VALUES(country), is_active = VALUES(is_active), updated_on = VALUES(updated_on)`,
		user.ID, user.Username, user.Email, user.Password, user.Country,
		user.IsActive, user.CreatedOn, user.UpdatedOn)
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+` WHERE username = ?`, username)
	return scanUser(row)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY created_on ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Password,
			&user.Country, &user.IsActive, &user.CreatedOn, &user.UpdatedOn); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

const selectUser = `
	SELECT id, username, email, password, country, is_active, created_on, updated_on
	FROM users`

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password,
		&user.Country, &user.IsActive, &user.CreatedOn, &user.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
