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

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *logrus.Logger
	config      *configs.Config
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *logrus.Logger, config *configs.Config) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
		config:      config,
	}
}

// Create handles task creation
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	id, err := h.taskService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("Failed to create task: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, "task created successfully", map[string]interface{}{
		"task_id": id,
	})
}

// GetAll handles listing tasks, filtered by optional status and assignee
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	status := models.TaskStatus(r.URL.Query().Get("status"))

	assigneeID := 0
	if raw := r.URL.Query().Get("assignee_id"); raw != "" {
		var err error
		if assigneeID, err = strconv.Atoi(raw); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid assignee ID")
			return
		}
	}

	tasks, err := h.taskService.GetAll(r.Context(), status, assigneeID)
	if err != nil {
		h.logger.Warnf("Failed to get tasks: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "tasks retrieved successfully", tasks)
}

// GetByID handles retrieving one task
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Warnf("Failed to get task: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "task not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "task retrieved successfully", task)
}

// Update handles task updates
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req models.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.taskService.Update(r.Context(), id, &req); err != nil {
		h.logger.Warnf("Failed to update task: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "task updated successfully", nil)
}

// UpdateStatus handles moving a task through its lifecycle
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.taskService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.logger.Warnf("Failed to update task status: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "task status updated successfully", nil)
}

// Delete handles task deletion
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		h.logger.Warnf("Failed to delete task: %v", err)
		utils.RespondWithError(w, http.StatusNotFound, "task not found")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "task deleted successfully", nil)
}

func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid task ID")
		return 0, false
	}
	return id, true
}
