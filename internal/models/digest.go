package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DigestRunStatus defines the outcome of a digest run
type DigestRunStatus string

const (
	DigestRunStatusSent   DigestRunStatus = "sent"
	DigestRunStatusFailed DigestRunStatus = "failed"
)

// DigestRun records one attempt to build and deliver the weekly digest
type DigestRun struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	PeriodStart time.Time       `json:"period_start" db:"period_start"`
	PeriodEnd   time.Time       `json:"period_end" db:"period_end"`
	Status      DigestRunStatus `json:"status" db:"status"`
	Error       string          `json:"error,omitempty" db:"error"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// PaymentDigestLine is one payment row in the digest, with the amount
// converted into the portal's base currency where a rate is known
type PaymentDigestLine struct {
	Title      string          `json:"title"`
	Vendor     string          `json:"vendor,omitempty"`
	DueDate    time.Time       `json:"due_date"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	BaseAmount decimal.Decimal `json:"base_amount"`
}

// DigestReport is the collected weekly window, rendered to PDF and also
// served as the digest preview
type DigestReport struct {
	PeriodStart       time.Time            `json:"period_start"`
	PeriodEnd         time.Time            `json:"period_end"`
	TasksCreated      []*Task              `json:"tasks_created"`
	TasksCompleted    []*Task              `json:"tasks_completed"`
	PaymentsDueSoon   []*PaymentDigestLine `json:"payments_due_soon"`
	OverduePayments   []*PaymentDigestLine `json:"overdue_payments"`
	AssetsAdded       []*Asset             `json:"assets_added"`
	NotificationsSent int                  `json:"notifications_sent"`
	BaseCurrency      string               `json:"base_currency"`
	TotalDueBase      decimal.Decimal      `json:"total_due_base"`
	TotalOverdueBase  decimal.Decimal      `json:"total_overdue_base"`
}
