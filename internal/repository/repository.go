package repository

import (
	"context"
	"database/sql"
	"time"

	"ops-portal/internal/models"
	"ops-portal/internal/repository/postgres"
)

// PaymentRepository defines methods for payment repository
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) (int, error)
	GetByID(ctx context.Context, id int) (*models.Payment, error)
	GetAll(ctx context.Context) ([]*models.Payment, error)
	GetByStatus(ctx context.Context, status models.PaymentStatus) ([]*models.Payment, error)
	GetOpen(ctx context.Context) ([]*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error
	Delete(ctx context.Context, id int) error
}

// PaymentDocumentRepository defines methods for payment document repository
type PaymentDocumentRepository interface {
	Create(ctx context.Context, doc *models.PaymentDocument) (int, error)
	GetByID(ctx context.Context, id int) (*models.PaymentDocument, error)
	GetByPaymentID(ctx context.Context, paymentID int, includeArchived bool) ([]*models.PaymentDocument, error)
	Archive(ctx context.Context, id int) error
}

// TaskRepository defines methods for task repository
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) (int, error)
	GetByID(ctx context.Context, id int) (*models.Task, error)
	GetAll(ctx context.Context, status models.TaskStatus, assigneeID int) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, id int, status models.TaskStatus, completedAt *time.Time) error
	Delete(ctx context.Context, id int) error
	CountByStatus(ctx context.Context) (map[models.TaskStatus]int, error)
	GetCreatedBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error)
	GetCompletedBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error)
}

// AssetRepository defines methods for asset repository
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) (int, error)
	GetByID(ctx context.Context, id int) (*models.Asset, error)
	GetAll(ctx context.Context, status models.AssetStatus) ([]*models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	Assign(ctx context.Context, id int, staffID *int) error
	Delete(ctx context.Context, id int) error
	CountByStatus(ctx context.Context) (map[models.AssetStatus]int, error)
	GetCreatedBetween(ctx context.Context, start, end time.Time) ([]*models.Asset, error)
}

// StaffRepository defines methods for staff repository
type StaffRepository interface {
	Create(ctx context.Context, member *models.StaffMember) (int, error)
	GetByID(ctx context.Context, id int) (*models.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*models.StaffMember, error)
	GetAll(ctx context.Context, activeOnly bool) ([]*models.StaffMember, error)
	Update(ctx context.Context, member *models.StaffMember) error
	SetActive(ctx context.Context, id int, active bool) error
	GetDigestRecipients(ctx context.Context) ([]*models.StaffMember, error)
}

// NotificationRepository defines methods for notification repository
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) (int, error)
	GetByRecipient(ctx context.Context, recipientID int, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int) error
	MarkAllRead(ctx context.Context, recipientID int) error
	CountUnread(ctx context.Context, recipientID int) (int, error)
	CountUnreadAll(ctx context.Context) (int, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error)
}

// DigestRunRepository defines methods for digest run repository
type DigestRunRepository interface {
	Create(ctx context.Context, run *models.DigestRun) error
	GetLatest(ctx context.Context) (*models.DigestRun, error)
}

// Repository is a composition of all repositories
type Repository struct {
	DB              *sql.DB
	Payment         PaymentRepository
	PaymentDocument PaymentDocumentRepository
	Task            TaskRepository
	Asset           AssetRepository
	Staff           StaffRepository
	Notification    NotificationRepository
	DigestRun       DigestRunRepository
}

// NewRepository creates a new repository with all sub-repositories
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:              db,
		Payment:         postgres.NewPaymentRepository(db),
		PaymentDocument: postgres.NewPaymentDocumentRepository(db),
		Task:            postgres.NewTaskRepository(db),
		Asset:           postgres.NewAssetRepository(db),
		Staff:           postgres.NewStaffRepository(db),
		Notification:    postgres.NewNotificationRepository(db),
		DigestRun:       postgres.NewDigestRunRepository(db),
	}
}

// BeginTx begins a new transaction
func (r *Repository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.DB.BeginTx(ctx, nil)
}
