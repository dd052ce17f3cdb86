package models

import (
	"errors"
	"time"
)

// NotificationKind classifies a notification by its source
type NotificationKind string

const (
	NotificationKindTask    NotificationKind = "task"
	NotificationKindPayment NotificationKind = "payment"
	NotificationKindAsset   NotificationKind = "asset"
	NotificationKindSystem  NotificationKind = "system"
)

// Notification represents an in-portal message for a staff member
type Notification struct {
	ID          int              `json:"id" db:"id"`
	RecipientID int              `json:"recipient_id" db:"recipient_id"`
	Kind        NotificationKind `json:"kind" db:"kind"`
	Title       string           `json:"title" db:"title"`
	Body        string           `json:"body,omitempty" db:"body"`
	Read        bool             `json:"read" db:"read"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// NotificationRequest represents a notification create request
type NotificationRequest struct {
	RecipientID int    `json:"recipient_id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Body        string `json:"body,omitempty"`
}

// ValidateNotificationRequest validates notification request data
func (n *NotificationRequest) ValidateNotificationRequest() error {
	if n.RecipientID <= 0 {
		return errors.New("recipient is required")
	}
	if n.Title == "" {
		return errors.New("title is required")
	}

	switch NotificationKind(n.Kind) {
	case NotificationKindTask, NotificationKindPayment, NotificationKindAsset, NotificationKindSystem:
	default:
		return errors.New("kind must be task, payment, asset or system")
	}

	return nil
}

// ToNotification converts NotificationRequest to Notification
func (n *NotificationRequest) ToNotification() *Notification {
	return &Notification{
		RecipientID: n.RecipientID,
		Kind:        NotificationKind(n.Kind),
		Title:       n.Title,
		Body:        n.Body,
	}
}
