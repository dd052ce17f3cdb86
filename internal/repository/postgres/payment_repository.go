package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ops-portal/internal/models"
)

// PaymentRepo is a PostgreSQL implementation of the repository.PaymentRepository interface
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepository creates a new PaymentRepo
func NewPaymentRepository(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentColumns = `id, title, vendor, payment_type, amount, currency, status,
	recurrence_period, next_payment_due, payment_date, notes, created_at, updated_at`

// Create creates a new payment in the database
func (r *PaymentRepo) Create(ctx context.Context, payment *models.Payment) (int, error) {
	query := `INSERT INTO payments (title, vendor, payment_type, amount, currency, status,
	         recurrence_period, next_payment_due, payment_date, notes)
	         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		payment.Title,
		payment.Vendor,
		payment.PaymentType,
		payment.Amount,
		payment.Currency,
		payment.Status,
		periodValue(payment.RecurrencePeriod),
		payment.NextPaymentDue,
		payment.PaymentDate,
		payment.Notes,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create payment: %w", err)
	}

	return id, nil
}

// GetByID gets a payment by ID
func (r *PaymentRepo) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// GetAll gets all payments ordered by creation time, newest first
func (r *PaymentRepo) GetAll(ctx context.Context) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// GetByStatus gets all payments with a specific stored status
func (r *PaymentRepo) GetByStatus(ctx context.Context, status models.PaymentStatus) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// GetOpen gets all payments that still require money movement (due or overdue)
func (r *PaymentRepo) GetOpen(ctx context.Context) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
	         WHERE status IN ($1, $2)
	         ORDER BY COALESCE(next_payment_due, payment_date)`

	rows, err := r.db.QueryContext(ctx, query, models.PaymentStatusDue, models.PaymentStatusOverdue)
	if err != nil {
		return nil, fmt.Errorf("failed to get open payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// Update updates a payment
func (r *PaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	query := `UPDATE payments
	         SET title = $1, vendor = $2, payment_type = $3, amount = $4, currency = $5,
	             recurrence_period = $6, next_payment_due = $7, payment_date = $8,
	             notes = $9, updated_at = NOW()
	         WHERE id = $10`

	result, err := r.db.ExecContext(
		ctx,
		query,
		payment.Title,
		payment.Vendor,
		payment.PaymentType,
		payment.Amount,
		payment.Currency,
		periodValue(payment.RecurrencePeriod),
		payment.NextPaymentDue,
		payment.PaymentDate,
		payment.Notes,
		payment.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	return requireRowsAffected(result, "payment")
}

// UpdateStatus updates only the stored status of a payment
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	query := `UPDATE payments SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	return requireRowsAffected(result, "payment")
}

// Delete deletes a payment and, via cascade, its documents
func (r *PaymentRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	return requireRowsAffected(result, "payment")
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row scanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var period sql.NullString
	var nextDue, paymentDate sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.Title,
		&payment.Vendor,
		&payment.PaymentType,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&period,
		&nextDue,
		&paymentDate,
		&payment.Notes,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if period.Valid {
		p := models.PeriodUnit(period.String)
		payment.RecurrencePeriod = &p
	}
	if nextDue.Valid {
		d := nextDue.Time
		payment.NextPaymentDue = &d
	}
	if paymentDate.Valid {
		d := paymentDate.Time
		payment.PaymentDate = &d
	}

	return payment, nil
}

func scanPayments(rows *sql.Rows) ([]*models.Payment, error) {
	var payments []*models.Payment

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return payments, nil
}

func periodValue(period *models.PeriodUnit) interface{} {
	if period == nil {
		return nil
	}
	return string(*period)
}

func requireRowsAffected(result sql.Result, entity string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%s not found", entity)
	}

	return nil
}
