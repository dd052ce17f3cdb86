package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/models"
	"ops-portal/internal/service"
	"ops-portal/pkg/utils"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *logrus.Logger
	config              *configs.Config
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService service.NotificationService, logger *logrus.Logger, config *configs.Config) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
		config:              config,
	}
}

// Create handles posting a notification to a staff member
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	id, err := h.notificationService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("Failed to create notification: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "notification created successfully", map[string]interface{}{
		"notification_id": id,
	})
}

// GetAll handles listing a recipient's notifications
func (h *NotificationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := h.recipientID(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	notifications, err := h.notificationService.GetByRecipient(r.Context(), recipientID, unreadOnly)
	if err != nil {
		h.logger.Warnf("Failed to get notifications: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get notifications")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "notifications retrieved successfully", notifications)
}

// CountUnread handles the unread badge count
func (h *NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := h.recipientID(w, r)
	if !ok {
		return
	}

	count, err := h.notificationService.CountUnread(r.Context(), recipientID)
	if err != nil {
		h.logger.Warnf("Failed to count notifications: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to count notifications")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "unread count retrieved successfully", map[string]interface{}{
		"unread": count,
	})
}

// MarkRead handles marking one notification as read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	recipientID, ok := h.recipientID(w, r)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), id, recipientID); err != nil {
		h.logger.Warnf("Failed to mark notification read: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "notification not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "notification marked read", nil)
}

// MarkAllRead handles clearing a recipient's unread notifications
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	recipientID, ok := h.recipientID(w, r)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), recipientID); err != nil {
		h.logger.Warnf("Failed to mark notifications read: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "notifications marked read", nil)
}

func (h *NotificationHandler) recipientID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get("recipient_id"))
	if err != nil || id <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "recipient_id query parameter is required")
		return 0, false
	}
	return id, true
}
