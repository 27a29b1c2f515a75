package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletStatus string

const (
	WalletActive   WalletStatus = "ACTIVE"
	WalletInactive WalletStatus = "INACTIVE"
)

type Wallet struct {
	ID        string          `json:"id" db:"id"`
	OwnerID   string          `json:"owner_id" db:"owner_id"`
	Status    WalletStatus    `json:"status" db:"status"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	Currency  string          `json:"currency" db:"currency"`
	CreatedOn time.Time       `json:"created_on" db:"created_on"`
	UpdatedOn time.Time       `json:"updated_on" db:"updated_on"`
}
