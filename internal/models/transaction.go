package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
)

type TransactionStatus string

const (
	TransactionSucceeded TransactionStatus = "SUCCEEDED"
	TransactionFailed    TransactionStatus = "FAILED"
)

// Transaction is an append-only ledger entry. Rows are never updated
// or deleted once written.
type Transaction struct {
	ID            string            `json:"id" db:"id"`
	OwnerID       string            `json:"owner_id" db:"owner_id"`
	Sender        string            `json:"sender" db:"sender"`
	Receiver      string            `json:"receiver" db:"receiver"`
	Amount        decimal.Decimal   `json:"amount" db:"amount"`
	BalanceLeft   decimal.Decimal   `json:"balance_left" db:"balance_left"`
	Currency      string            `json:"currency" db:"currency"`
	Type          TransactionType   `json:"type" db:"type"`
	Status        TransactionStatus `json:"status" db:"status"`
	Description   string            `json:"description" db:"description"`
	FailureReason string            `json:"failure_reason,omitempty" db:"failure_reason"`
	Reference     string            `json:"reference" db:"reference"`
	CreatedOn     time.Time         `json:"created_on" db:"created_on"`
}
