package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType defines whether a payment is a single obligation or a repeating one
type PaymentType string

const (
	PaymentTypeOneTime   PaymentType = "one_time"
	PaymentTypeRecurring PaymentType = "recurring"
)

// PaymentStatus defines the stored status of a payment. The status shown to
// users is derived from this plus date math, see EffectiveStatus.
type PaymentStatus string

const (
	PaymentStatusDue       PaymentStatus = "due"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Payment represents a financial obligation tracked by the portal
type Payment struct {
	ID               int                `json:"id" db:"id"`
	Title            string             `json:"title" db:"title"`
	Vendor           string             `json:"vendor" db:"vendor"`
	PaymentType      PaymentType        `json:"payment_type" db:"payment_type"`
	Amount           decimal.Decimal    `json:"amount" db:"amount"`
	Currency         string             `json:"currency" db:"currency"`
	Status           PaymentStatus      `json:"status" db:"status"`
	RecurrencePeriod *PeriodUnit        `json:"recurrence_period,omitempty" db:"recurrence_period"`
	NextPaymentDue   *time.Time         `json:"next_payment_due,omitempty" db:"next_payment_due"`
	PaymentDate      *time.Time         `json:"payment_date,omitempty" db:"payment_date"`
	Notes            string             `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" db:"updated_at"`
	Documents        []*PaymentDocument `json:"documents,omitempty"`
}

// PaymentRequest represents a payment create/update request
type PaymentRequest struct {
	Title            string `json:"title"`
	Vendor           string `json:"vendor"`
	PaymentType      string `json:"payment_type"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	RecurrencePeriod string `json:"recurrence_period,omitempty"`
	NextPaymentDue   string `json:"next_payment_due,omitempty"`
	PaymentDate      string `json:"payment_date,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// ValidatePaymentRequest validates payment request data
func (p *PaymentRequest) ValidatePaymentRequest() error {
	if p.Title == "" {
		return errors.New("title is required")
	}

	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return errors.New("amount must be a decimal number")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("amount must be positive")
	}

	if len(p.Currency) != 3 {
		return errors.New("currency must be a 3-letter ISO code")
	}

	switch PaymentType(p.PaymentType) {
	case PaymentTypeOneTime:
		if p.RecurrencePeriod != "" {
			return errors.New("one-time payments cannot have a recurrence period")
		}
	case PaymentTypeRecurring:
		switch PeriodUnit(p.RecurrencePeriod) {
		case PeriodMonthly, PeriodQuarterly, PeriodYearly:
		default:
			return errors.New("recurrence period must be monthly, quarterly or yearly")
		}
	default:
		return errors.New("payment type must be one_time or recurring")
	}

	for _, d := range []string{p.NextPaymentDue, p.PaymentDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return errors.New("dates must use the yyyy-mm-dd format")
		}
	}

	return nil
}

// ToPayment converts PaymentRequest to Payment. Call ValidatePaymentRequest first;
// malformed optional dates are dropped rather than reported here.
func (p *PaymentRequest) ToPayment() *Payment {
	amount, _ := decimal.NewFromString(p.Amount)

	payment := &Payment{
		Title:       p.Title,
		Vendor:      p.Vendor,
		PaymentType: PaymentType(p.PaymentType),
		Amount:      amount,
		Currency:    p.Currency,
		Status:      PaymentStatusDue,
		Notes:       p.Notes,
	}

	if p.RecurrencePeriod != "" {
		period := PeriodUnit(p.RecurrencePeriod)
		payment.RecurrencePeriod = &period
	}
	if p.NextPaymentDue != "" {
		if d, err := time.Parse("2006-01-02", p.NextPaymentDue); err == nil {
			payment.NextPaymentDue = &d
		}
	}
	if p.PaymentDate != "" {
		if d, err := time.Parse("2006-01-02", p.PaymentDate); err == nil {
			payment.PaymentDate = &d
		}
	}

	return payment
}

// ValidStatusTransition reports whether a stored status change is allowed.
// Terminal states can only be reopened to due.
func ValidStatusTransition(from, to PaymentStatus) bool {
	switch to {
	case PaymentStatusDue, PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusCancelled:
	default:
		return false
	}

	if from == PaymentStatusCancelled && to != PaymentStatusDue {
		return false
	}

	return true
}
