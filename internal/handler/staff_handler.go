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

// StaffHandler handles staff directory HTTP requests
type StaffHandler struct {
	staffService service.StaffService
	logger       *logrus.Logger
	config       *configs.Config
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staffService service.StaffService, logger *logrus.Logger, config *configs.Config) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		logger:       logger,
		config:       config,
	}
}

// Create handles adding a directory entry
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	id, err := h.staffService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("Failed to create staff member: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "staff member created successfully", map[string]interface{}{
		"staff_id": id,
	})
}

// GetAll handles listing the directory. Inactive entries show up only with
// include_inactive=true.
func (h *StaffHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	members, err := h.staffService.GetAll(r.Context(), activeOnly)
	if err != nil {
		h.logger.Warnf("Failed to get staff: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to get staff")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "staff retrieved successfully", members)
}

// GetByID handles retrieving one directory entry
func (h *StaffHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.staffID(w, r)
	if !ok {
		return
	}

	member, err := h.staffService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Warnf("Failed to get staff member: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "staff member not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "staff member retrieved successfully", member)
}

// Update handles directory entry updates
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.staffID(w, r)
	if !ok {
		return
	}

	var req models.StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.staffService.Update(r.Context(), id, &req); err != nil {
		h.logger.Warnf("Failed to update staff member: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "staff member updated successfully", nil)
}

// Deactivate handles soft-removing a directory entry
func (h *StaffHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "staff member deactivated successfully")
}

// Activate handles restoring a directory entry
func (h *StaffHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "staff member activated successfully")
}

func (h *StaffHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	id, ok := h.staffID(w, r)
	if !ok {
		return
	}

	if err := h.staffService.SetActive(r.Context(), id, active); err != nil {
		h.logger.Warnf("Failed to change staff active flag: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "staff member not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, message, nil)
}

func (h *StaffHandler) staffID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid staff ID")
		return 0, false
	}
	return id, true
}
