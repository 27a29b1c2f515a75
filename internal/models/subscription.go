package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	SubscriptionActive     SubscriptionStatus = "ACTIVE"
	SubscriptionCompleted  SubscriptionStatus = "COMPLETED"
	SubscriptionTerminated SubscriptionStatus = "TERMINATED"
)

type SubscriptionPeriod string

const (
	PeriodMonthly SubscriptionPeriod = "MONTHLY"
	PeriodYearly  SubscriptionPeriod = "YEARLY"
)

type SubscriptionType string

const (
	PlanDefault  SubscriptionType = "DEFAULT"
	PlanPremium  SubscriptionType = "PREMIUM"
	PlanUltimate SubscriptionType = "ULTIMATE"
)

// Subscription is a single plan instance. A user holds exactly one ACTIVE
// instance at any time; COMPLETED and TERMINATED are terminal. While ACTIVE,
// CompletedOn holds the renewal due date.
type Subscription struct {
	ID             string             `json:"id" db:"id"`
	OwnerID        string             `json:"owner_id" db:"owner_id"`
	Status         SubscriptionStatus `json:"status" db:"status"`
	Period         SubscriptionPeriod `json:"period" db:"period"`
	Type           SubscriptionType   `json:"type" db:"type"`
	Price          decimal.Decimal    `json:"price" db:"price"`
	RenewalAllowed bool               `json:"renewal_allowed" db:"renewal_allowed"`
	CreatedOn      time.Time          `json:"created_on" db:"created_on"`
	CompletedOn    time.Time          `json:"completed_on" db:"completed_on"`
}
