package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ops-portal/internal/models"
)

// NotificationRepo is a PostgreSQL implementation of the repository.NotificationRepository interface
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepo
func NewNotificationRepository(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create creates a new notification in the database
func (r *NotificationRepo) Create(ctx context.Context, notification *models.Notification) (int, error) {
	query := `INSERT INTO notifications (recipient_id, kind, title, body)
	         VALUES ($1, $2, $3, $4) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		notification.RecipientID,
		notification.Kind,
		notification.Title,
		notification.Body,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create notification: %w", err)
	}

	return id, nil
}

// GetByRecipient gets notifications for a staff member, newest first
func (r *NotificationRepo) GetByRecipient(ctx context.Context, recipientID int, unreadOnly bool) ([]*models.Notification, error) {
	query := `SELECT id, recipient_id, kind, title, body, read, created_at
	         FROM notifications
	         WHERE recipient_id = $1 AND (read = FALSE OR NOT $2)
	         ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, recipientID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.RecipientID, &n.Kind, &n.Title, &n.Body, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return notifications, nil
}

// MarkRead marks a single notification as read
func (r *NotificationRepo) MarkRead(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return requireRowsAffected(result, "notification")
}

// MarkAllRead marks every notification of a recipient as read
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}

// CountUnread counts unread notifications for a recipient
func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`, recipientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return count, nil
}

// CountUnreadAll counts unread notifications across all recipients
func (r *NotificationRepo) CountUnreadAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE read = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return count, nil
}

// CountCreatedBetween counts notifications created in the half-open interval [start, end)
func (r *NotificationRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE created_at >= $1 AND created_at < $2`, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	return count, nil
}
