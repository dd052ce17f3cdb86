package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

// memNotificationRepo keeps notifications in a slice so read-state changes
// survive across calls within a test.
type memNotificationRepo struct {
	notifications []*models.Notification
}

func (m *memNotificationRepo) Create(ctx context.Context, n *models.Notification) (int, error) {
	n.ID = len(m.notifications) + 1
	m.notifications = append(m.notifications, n)
	return n.ID, nil
}

func (m *memNotificationRepo) GetByRecipient(ctx context.Context, recipientID int, unreadOnly bool) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range m.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *memNotificationRepo) MarkRead(ctx context.Context, id int) error {
	for _, n := range m.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return errors.New("no rows affected")
}

func (m *memNotificationRepo) MarkAllRead(ctx context.Context, recipientID int) error {
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (m *memNotificationRepo) CountUnread(ctx context.Context, recipientID int) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memNotificationRepo) CountUnreadAll(ctx context.Context) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memNotificationRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	return len(m.notifications), nil
}

func notificationTestService(repo repository.NotificationRepository) *NotificationSvc {
	logger, _ := test.NewNullLogger()
	return &NotificationSvc{
		repos:  &repository.Repository{Notification: repo},
		logger: logger,
	}
}

func TestMarkRead(t *testing.T) {
	repo := &memNotificationRepo{notifications: []*models.Notification{
		{ID: 1, RecipientID: 1, Title: "task assigned"},
	}}
	s := notificationTestService(repo)

	if err := s.MarkRead(context.Background(), 1, 1); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !repo.notifications[0].Read {
		t.Error("notification should be marked read")
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	repo := &memNotificationRepo{notifications: []*models.Notification{
		{ID: 1, RecipientID: 1, Title: "task assigned", Read: true},
	}}
	s := notificationTestService(repo)

	if err := s.MarkRead(context.Background(), 1, 1); err != nil {
		t.Fatalf("marking an already read notification should succeed, got: %v", err)
	}
}

func TestMarkReadWrongRecipient(t *testing.T) {
	repo := &memNotificationRepo{notifications: []*models.Notification{
		{ID: 1, RecipientID: 2, Title: "someone else's"},
	}}
	s := notificationTestService(repo)

	if err := s.MarkRead(context.Background(), 1, 1); err == nil {
		t.Fatal("expected an error for another recipient's notification")
	}
	if repo.notifications[0].Read {
		t.Error("notification must stay unread")
	}
}
