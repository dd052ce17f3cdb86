package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/models"
	"ops-portal/internal/service"
	"ops-portal/pkg/utils"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService service.PaymentService
	exportService  service.ExportService
	logger         *logrus.Logger
	config         *configs.Config
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService, exportService service.ExportService, logger *logrus.Logger, config *configs.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		exportService:  exportService,
		logger:         logger,
		config:         config,
	}
}

// paymentView decorates a payment with its date-derived status
type paymentView struct {
	*models.Payment
	EffectiveStatus models.EffectiveStatus `json:"effective_status"`
	DisplayStatus   models.PaymentStatus   `json:"display_status"`
}

func newPaymentView(payment *models.Payment, now time.Time) *paymentView {
	status := models.DeriveStatus(payment, now)
	return &paymentView{
		Payment:         payment,
		EffectiveStatus: status,
		DisplayStatus:   status.DisplayBucket(),
	}
}

// Create handles payment creation
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	id, err := h.paymentService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("Failed to create payment: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "payment created successfully", map[string]interface{}{
		"payment_id": id,
	})
}

// GetAll handles listing payments with their derived statuses
func (h *PaymentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentService.GetAll(r.Context())
	if err != nil {
		h.logger.Warnf("Failed to get payments: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get payments")
		return
	}

	now := time.Now()
	views := make([]*paymentView, 0, len(payments))
	for _, payment := range payments {
		views = append(views, newPaymentView(payment, now))
	}

	utils.RespondWithSuccess(w, http.StatusOK, "payments retrieved successfully", views)
}

// GetByID handles retrieving one payment with documents
func (h *PaymentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Warnf("Failed to get payment: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "payment not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "payment retrieved successfully", newPaymentView(payment, time.Now()))
}

// Update handles payment updates
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.paymentService.Update(r.Context(), id, &req); err != nil {
		h.logger.Warnf("Failed to update payment: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "payment updated successfully", nil)
}

// UpdateStatus handles stored-status transitions
func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status models.PaymentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.paymentService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.logger.Warnf("Failed to update payment status: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "payment status updated successfully", nil)
}

// Delete handles payment deletion
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	if err := h.paymentService.Delete(r.Context(), id); err != nil {
		h.logger.Warnf("Failed to delete payment: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "payment not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "payment deleted successfully", nil)
}

// GetSchedule handles retrieving the projected occurrence window
func (h *PaymentHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	schedule, summary, err := h.paymentService.GetSchedule(r.Context(), id)
	if err != nil {
		h.logger.Warnf("Failed to get payment schedule: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "payment not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "schedule retrieved successfully", map[string]interface{}{
		"schedule": schedule,
		"summary":  summary,
	})
}

// GetAmountDue handles retrieving the amount currently owed
func (h *PaymentHandler) GetAmountDue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	amount, status, err := h.paymentService.GetAmountDue(r.Context(), id)
	if err != nil {
		h.logger.Warnf("Failed to get amount due: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "payment not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "amount due retrieved successfully", map[string]interface{}{
		"amount_due":       amount,
		"effective_status": status,
	})
}

// AddDocument handles attaching a document to a payment
func (h *PaymentHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	var upload models.DocumentUpload
	if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	docID, err := h.paymentService.AddDocument(r.Context(), id, &upload)
	if err != nil {
		h.logger.Warnf("Failed to add document: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "document attached successfully", map[string]interface{}{
		"document_id": docID,
	})
}

// GetDocuments handles listing a payment's documents
func (h *PaymentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	includeArchived := r.URL.Query().Get("include_archived") == "true"

	docs, err := h.paymentService.GetDocuments(r.Context(), id, includeArchived)
	if err != nil {
		h.logger.Warnf("Failed to get documents: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "payment not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "documents retrieved successfully", docs)
}

// ReplaceDocument handles archiving a document and attaching its replacement
func (h *PaymentHandler) ReplaceDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	docID, err := strconv.Atoi(mux.Vars(r)["docID"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var upload models.DocumentUpload
	if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	newID, err := h.paymentService.ReplaceDocument(r.Context(), id, docID, &upload)
	if err != nil {
		h.logger.Warnf("Failed to replace document: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "document replaced successfully", map[string]interface{}{
		"document_id": newID,
	})
}

// Export handles downloading the payment list as csv or xlsx
func (h *PaymentHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")

	data, filename, err := h.exportService.Payments(r.Context(), format)
	if err != nil {
		h.logger.Warnf("Failed to export payments: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithFile(w, filename, exportContentType(filename), data)
}

func (h *PaymentHandler) paymentID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payment ID")
		return 0, false
	}
	return id, true
}

func exportContentType(filename string) string {
	if len(filename) > 5 && filename[len(filename)-5:] == ".xlsx" {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}
