package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/cache"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

const unreadCountTTL = time.Minute

func unreadCountCacheKey(recipientID int) string {
	return fmt.Sprintf("notifications:unread:%d", recipientID)
}

// NotificationSvc is an implementation of the service.NotificationService interface
type NotificationSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
	cache  *cache.Cache
	email  EmailService
}

// NewNotificationService creates a new NotificationSvc
func NewNotificationService(deps Dependencies) *NotificationSvc {
	return &NotificationSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
		cache:  deps.Cache,
		email:  NewEmailService(deps),
	}
}

// Create creates a notification for a staff member
func (s *NotificationSvc) Create(ctx context.Context, req *models.NotificationRequest) (int, error) {
	if err := req.ValidateNotificationRequest(); err != nil {
		return 0, fmt.Errorf("invalid notification request: %w", err)
	}

	if _, err := s.repos.Staff.GetByID(ctx, req.RecipientID); err != nil {
		return 0, fmt.Errorf("recipient not found: %w", err)
	}

	id, err := s.repos.Notification.Create(ctx, req.ToNotification())
	if err != nil {
		return 0, fmt.Errorf("failed to create notification: %w", err)
	}

	s.invalidateUnreadCount(ctx, req.RecipientID)

	return id, nil
}

// GetByRecipient lists notifications for a staff member, newest first
func (s *NotificationSvc) GetByRecipient(ctx context.Context, recipientID int, unreadOnly bool) ([]*models.Notification, error) {
	return s.repos.Notification.GetByRecipient(ctx, recipientID, unreadOnly)
}

// MarkRead marks one notification as read. The recipient must match so one
// staff member cannot clear another's inbox. Re-marking an already read
// notification is a no-op, not an error.
func (s *NotificationSvc) MarkRead(ctx context.Context, id int, recipientID int) error {
	notifications, err := s.repos.Notification.GetByRecipient(ctx, recipientID, false)
	if err != nil {
		return err
	}

	found := false
	for _, n := range notifications {
		if n.ID == id {
			found = true
			break
		}
	}
	if !found {
		return errors.New("notification not found")
	}

	if err := s.repos.Notification.MarkRead(ctx, id); err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, recipientID)

	return nil
}

// MarkAllRead marks every notification of a recipient as read
func (s *NotificationSvc) MarkAllRead(ctx context.Context, recipientID int) error {
	if err := s.repos.Notification.MarkAllRead(ctx, recipientID); err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, recipientID)

	return nil
}

// CountUnread returns the recipient's unread badge count, cached briefly
func (s *NotificationSvc) CountUnread(ctx context.Context, recipientID int) (int, error) {
	return cache.GetOrSet(ctx, s.cache, unreadCountCacheKey(recipientID), unreadCountTTL, func() (int, error) {
		return s.repos.Notification.CountUnread(ctx, recipientID)
	})
}

// SendDueReminders sweeps open payments and reminds opted-in staff about the
// ones that derive to due or overdue. Failures on one payment never stop the
// sweep; they are logged and the loop moves on.
func (s *NotificationSvc) SendDueReminders(ctx context.Context) error {
	now := time.Now()
	s.logger.Infof("Running payment reminder sweep for date: %s", now.Format("2006-01-02"))

	payments, err := s.repos.Payment.GetOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to get open payments: %w", err)
	}

	recipients, err := s.repos.Staff.GetDigestRecipients(ctx)
	if err != nil {
		return fmt.Errorf("failed to get reminder recipients: %w", err)
	}

	reminded := 0
	for _, payment := range payments {
		status := models.DeriveStatus(payment, now)
		if status != models.EffectiveDue && status != models.EffectiveOverdue {
			continue
		}

		if status == models.EffectiveOverdue && payment.Status == models.PaymentStatusDue {
			if err := s.repos.Payment.UpdateStatus(ctx, payment.ID, models.PaymentStatusOverdue); err != nil {
				s.logger.Warnf("Failed to sync payment %d status to overdue: %v", payment.ID, err)
			}
		}

		owed := models.AmountDue(payment, now)

		for _, member := range recipients {
			notification := &models.Notification{
				RecipientID: member.ID,
				Kind:        models.NotificationKindPayment,
				Title:       fmt.Sprintf("Payment %s: %s", status, payment.Title),
				Body:        fmt.Sprintf("%s %s owed to %s", owed, payment.Currency, payment.Vendor),
			}

			if _, err := s.repos.Notification.Create(ctx, notification); err != nil {
				s.logger.Warnf("Failed to create reminder notification for staff %d: %v", member.ID, err)
				continue
			}
			s.invalidateUnreadCount(ctx, member.ID)

			if err := s.email.SendPaymentReminder(ctx, member, payment, status, owed); err != nil {
				s.logger.Warnf("Failed to send reminder email to %s: %v", member.Email, err)
			}
		}

		reminded++
	}

	s.logger.Infof("Reminder sweep finished: %d of %d open payments need attention", reminded, len(payments))

	return nil
}

func (s *NotificationSvc) invalidateUnreadCount(ctx context.Context, recipientID int) {
	if err := s.cache.Delete(ctx, unreadCountCacheKey(recipientID)); err != nil {
		s.logger.Warnf("Failed to invalidate unread count cache: %v", err)
	}
}
