package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/cache"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

// PaymentSvc is an implementation of the service.PaymentService interface
type PaymentSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
	cache  *cache.Cache
}

// NewPaymentService creates a new PaymentSvc
func NewPaymentService(deps Dependencies) *PaymentSvc {
	return &PaymentSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
		cache:  deps.Cache,
	}
}

// Create creates a new payment
func (s *PaymentSvc) Create(ctx context.Context, req *models.PaymentRequest) (int, error) {
	if err := req.ValidatePaymentRequest(); err != nil {
		return 0, fmt.Errorf("invalid payment request: %w", err)
	}

	payment := req.ToPayment()

	id, err := s.repos.Payment.Create(ctx, payment)
	if err != nil {
		return 0, fmt.Errorf("failed to create payment: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.Infof("Payment created: %d (%s, %s %s)", id, payment.Title, payment.Amount, payment.Currency)

	return id, nil
}

// GetByID gets a payment by ID, documents included
func (s *PaymentSvc) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	payment, err := s.repos.Payment.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	docs, err := s.repos.PaymentDocument.GetByPaymentID(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment documents: %w", err)
	}
	payment.Documents = docs

	return payment, nil
}

// GetAll gets all payments
func (s *PaymentSvc) GetAll(ctx context.Context) ([]*models.Payment, error) {
	payments, err := s.repos.Payment.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	return payments, nil
}

// Update updates a payment's editable fields. The stored status is managed
// through UpdateStatus only.
func (s *PaymentSvc) Update(ctx context.Context, id int, req *models.PaymentRequest) error {
	if err := req.ValidatePaymentRequest(); err != nil {
		return fmt.Errorf("invalid payment request: %w", err)
	}

	existing, err := s.repos.Payment.GetByID(ctx, id)
	if err != nil {
		return err
	}

	payment := req.ToPayment()
	payment.ID = existing.ID
	payment.Status = existing.Status

	if err := s.repos.Payment.Update(ctx, payment); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	s.invalidateDashboard(ctx)

	return nil
}

// UpdateStatus applies a stored-status transition. Cancelled payments can only
// be reopened to due.
func (s *PaymentSvc) UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	payment, err := s.repos.Payment.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !models.ValidStatusTransition(payment.Status, status) {
		return fmt.Errorf("invalid status transition from %s to %s", payment.Status, status)
	}

	if err := s.repos.Payment.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.Infof("Payment %d status changed: %s -> %s", id, payment.Status, status)

	return nil
}

// Delete deletes a payment and its documents
func (s *PaymentSvc) Delete(ctx context.Context, id int) error {
	if err := s.repos.Payment.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateDashboard(ctx)

	return nil
}

// GetSchedule projects the occurrence window for a recurring payment. When the
// projection shows the payment slipped past its due date, the stored status is
// synced to overdue so list views agree with the schedule.
func (s *PaymentSvc) GetSchedule(ctx context.Context, id int) (models.Schedule, *models.ScheduleSummary, error) {
	payment, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Schedule{}, nil, err
	}

	now := time.Now()
	schedule := models.BuildSchedule(payment, now)

	if payment.Status == models.PaymentStatusDue &&
		models.DeriveStatus(payment, now) == models.EffectiveOverdue {
		if err := s.repos.Payment.UpdateStatus(ctx, id, models.PaymentStatusOverdue); err != nil {
			s.logger.Warnf("Failed to sync payment %d status to overdue: %v", id, err)
		}
	}

	return schedule, models.SummarizeSchedule(schedule), nil
}

// GetAmountDue computes the amount currently owed on a payment
func (s *PaymentSvc) GetAmountDue(ctx context.Context, id int) (decimal.Decimal, models.EffectiveStatus, error) {
	payment, err := s.repos.Payment.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, "", err
	}

	now := time.Now()

	return models.AmountDue(payment, now), models.DeriveStatus(payment, now), nil
}

// AddDocument attaches an uploaded document to a payment
func (s *PaymentSvc) AddDocument(ctx context.Context, paymentID int, upload *models.DocumentUpload) (int, error) {
	if err := upload.ValidateDocumentUpload(); err != nil {
		return 0, fmt.Errorf("invalid document upload: %w", err)
	}

	if _, err := s.repos.Payment.GetByID(ctx, paymentID); err != nil {
		return 0, err
	}

	id, err := s.repos.PaymentDocument.Create(ctx, upload.ToDocument(paymentID))
	if err != nil {
		return 0, fmt.Errorf("failed to create payment document: %w", err)
	}

	s.logger.Infof("Document %d (%s) attached to payment %d", id, upload.DocumentType, paymentID)

	return id, nil
}

// ReplaceDocument archives an existing document and attaches the replacement.
// The old row is kept for audit; only the archived flag changes. A replacement
// without its own applicable date inherits the date of the document it replaces.
func (s *PaymentSvc) ReplaceDocument(ctx context.Context, paymentID, docID int, upload *models.DocumentUpload) (int, error) {
	if err := upload.ValidateDocumentUpload(); err != nil {
		return 0, fmt.Errorf("invalid document upload: %w", err)
	}

	old, err := s.repos.PaymentDocument.GetByID(ctx, docID)
	if err != nil {
		return 0, err
	}
	if old.PaymentID != paymentID {
		return 0, errors.New("document belongs to another payment")
	}
	if old.Archived {
		return 0, errors.New("document is already archived")
	}

	if err := s.repos.PaymentDocument.Archive(ctx, docID); err != nil {
		return 0, err
	}

	doc := upload.ToDocument(paymentID)
	if doc.ApplicableDate == nil {
		doc.ApplicableDate = old.ApplicableDate
	}

	id, err := s.repos.PaymentDocument.Create(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("failed to create replacement document: %w", err)
	}

	s.logger.Infof("Document %d replaced by %d on payment %d", docID, id, paymentID)

	return id, nil
}

// GetDocuments lists documents attached to a payment
func (s *PaymentSvc) GetDocuments(ctx context.Context, paymentID int, includeArchived bool) ([]*models.PaymentDocument, error) {
	if _, err := s.repos.Payment.GetByID(ctx, paymentID); err != nil {
		return nil, err
	}

	return s.repos.PaymentDocument.GetByPaymentID(ctx, paymentID, includeArchived)
}

func (s *PaymentSvc) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.logger.Warnf("Failed to invalidate dashboard cache: %v", err)
	}
}
