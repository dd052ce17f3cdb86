package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/cache"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

// PaymentService defines methods for payment service
type PaymentService interface {
	Create(ctx context.Context, req *models.PaymentRequest) (int, error)
	GetByID(ctx context.Context, id int) (*models.Payment, error)
	GetAll(ctx context.Context) ([]*models.Payment, error)
	Update(ctx context.Context, id int, req *models.PaymentRequest) error
	UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error
	Delete(ctx context.Context, id int) error
	GetSchedule(ctx context.Context, id int) (models.Schedule, *models.ScheduleSummary, error)
	GetAmountDue(ctx context.Context, id int) (decimal.Decimal, models.EffectiveStatus, error)
	AddDocument(ctx context.Context, paymentID int, upload *models.DocumentUpload) (int, error)
	ReplaceDocument(ctx context.Context, paymentID, docID int, upload *models.DocumentUpload) (int, error)
	GetDocuments(ctx context.Context, paymentID int, includeArchived bool) ([]*models.PaymentDocument, error)
}

// TaskService defines methods for task service
type TaskService interface {
	Create(ctx context.Context, req *models.TaskRequest) (int, error)
	GetByID(ctx context.Context, id int) (*models.Task, error)
	GetAll(ctx context.Context, status models.TaskStatus, assigneeID int) ([]*models.Task, error)
	Update(ctx context.Context, id int, req *models.TaskRequest) error
	UpdateStatus(ctx context.Context, id int, status models.TaskStatus) error
	Delete(ctx context.Context, id int) error
}

// AssetService defines methods for asset service
type AssetService interface {
	Create(ctx context.Context, req *models.AssetRequest) (int, error)
	GetByID(ctx context.Context, id int) (*models.Asset, error)
	GetAll(ctx context.Context, status models.AssetStatus) ([]*models.Asset, error)
	Update(ctx context.Context, id int, req *models.AssetRequest) error
	Assign(ctx context.Context, id int, staffID *int) error
	Delete(ctx context.Context, id int) error
}

// StaffService defines methods for staff service
type StaffService interface {
	Create(ctx context.Context, req *models.StaffRequest) (int, error)
	GetByID(ctx context.Context, id int) (*models.StaffMember, error)
	GetAll(ctx context.Context, activeOnly bool) ([]*models.StaffMember, error)
	Update(ctx context.Context, id int, req *models.StaffRequest) error
	SetActive(ctx context.Context, id int, active bool) error
}

// NotificationService defines methods for notification service
type NotificationService interface {
	Create(ctx context.Context, req *models.NotificationRequest) (int, error)
	GetByRecipient(ctx context.Context, recipientID int, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int, recipientID int) error
	MarkAllRead(ctx context.Context, recipientID int) error
	CountUnread(ctx context.Context, recipientID int) (int, error)
	SendDueReminders(ctx context.Context) error
}

// EmailService defines methods for email service
type EmailService interface {
	SendPaymentReminder(ctx context.Context, member *models.StaffMember, payment *models.Payment, status models.EffectiveStatus, owed decimal.Decimal) error
	SendDigest(ctx context.Context, recipients []string, report *models.DigestReport, pdf []byte) error
}

// RatesService defines methods for currency rates service
type RatesService interface {
	GetRates(ctx context.Context) (map[string]decimal.Decimal, error)
	ToBase(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error)
}

// DigestService defines methods for the weekly digest service
type DigestService interface {
	BuildReport(ctx context.Context, start, end time.Time) (*models.DigestReport, error)
	Preview(ctx context.Context) (*models.DigestReport, error)
	Send(ctx context.Context) (*models.DigestRun, error)
	RunIfDue(ctx context.Context) error
}

// ExportService defines methods for tabular exports
type ExportService interface {
	Payments(ctx context.Context, format string) ([]byte, string, error)
	Assets(ctx context.Context, format string) ([]byte, string, error)
}

// DashboardService defines methods for dashboard service
type DashboardService interface {
	GetOverview(ctx context.Context) (map[string]interface{}, error)
}

// Dependencies contains dependencies for services
type Dependencies struct {
	Repos  *repository.Repository
	Logger *logrus.Logger
	Config *configs.Config
	Cache  *cache.Cache
}

// Service is a composition of all services
type Service struct {
	Payment      PaymentService
	Task         TaskService
	Asset        AssetService
	Staff        StaffService
	Notification NotificationService
	Email        EmailService
	Rates        RatesService
	Digest       DigestService
	Export       ExportService
	Dashboard    DashboardService
}

// NewService creates a new service with all sub-services
func NewService(deps Dependencies) *Service {
	rates := NewRatesService(deps)

	return &Service{
		Payment:      NewPaymentService(deps),
		Task:         NewTaskService(deps),
		Asset:        NewAssetService(deps),
		Staff:        NewStaffService(deps),
		Notification: NewNotificationService(deps),
		Email:        NewEmailService(deps),
		Rates:        rates,
		Digest:       NewDigestService(deps, rates),
		Export:       NewExportService(deps),
		Dashboard:    NewDashboardService(deps),
	}
}
