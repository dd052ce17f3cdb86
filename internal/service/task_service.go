package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/cache"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

// TaskSvc is an implementation of the service.TaskService interface
type TaskSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
	cache  *cache.Cache
}

// NewTaskService creates a new TaskSvc
func NewTaskService(deps Dependencies) *TaskSvc {
	return &TaskSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
		cache:  deps.Cache,
	}
}

// Create creates a new task and notifies the assignee
func (s *TaskSvc) Create(ctx context.Context, req *models.TaskRequest) (int, error) {
	if err := req.ValidateTaskRequest(); err != nil {
		return 0, fmt.Errorf("invalid task request: %w", err)
	}

	if req.AssigneeID != nil {
		if _, err := s.repos.Staff.GetByID(ctx, *req.AssigneeID); err != nil {
			return 0, fmt.Errorf("assignee not found: %w", err)
		}
	}

	task := req.ToTask()

	id, err := s.repos.Task.Create(ctx, task)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	if task.AssigneeID != nil {
		s.notifyAssignee(ctx, *task.AssigneeID, "New task assigned", task.Title)
	}

	s.logger.Infof("Task created: %d (%s)", id, task.Title)

	return id, nil
}

// GetByID gets a task by ID
func (s *TaskSvc) GetByID(ctx context.Context, id int) (*models.Task, error) {
	return s.repos.Task.GetByID(ctx, id)
}

// GetAll gets tasks filtered by status and assignee. Zero values mean no filter.
func (s *TaskSvc) GetAll(ctx context.Context, status models.TaskStatus, assigneeID int) ([]*models.Task, error) {
	if status != "" && !models.ValidTaskStatus(status) {
		return nil, fmt.Errorf("unknown task status: %s", status)
	}

	return s.repos.Task.GetAll(ctx, status, assigneeID)
}

// Update updates a task's editable fields. Status moves through UpdateStatus.
func (s *TaskSvc) Update(ctx context.Context, id int, req *models.TaskRequest) error {
	if err := req.ValidateTaskRequest(); err != nil {
		return fmt.Errorf("invalid task request: %w", err)
	}

	existing, err := s.repos.Task.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if req.AssigneeID != nil {
		if _, err := s.repos.Staff.GetByID(ctx, *req.AssigneeID); err != nil {
			return fmt.Errorf("assignee not found: %w", err)
		}
	}

	task := req.ToTask()
	task.ID = existing.ID

	if err := s.repos.Task.Update(ctx, task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	reassigned := task.AssigneeID != nil &&
		(existing.AssigneeID == nil || *existing.AssigneeID != *task.AssigneeID)
	if reassigned {
		s.notifyAssignee(ctx, *task.AssigneeID, "Task assigned to you", task.Title)
	}

	return nil
}

// UpdateStatus moves a task through its lifecycle. Moving to done records the
// completion time; moving out of done clears it.
func (s *TaskSvc) UpdateStatus(ctx context.Context, id int, status models.TaskStatus) error {
	if !models.ValidTaskStatus(status) {
		return fmt.Errorf("unknown task status: %s", status)
	}

	task, err := s.repos.Task.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var completedAt *time.Time
	if status == models.TaskStatusDone {
		now := time.Now()
		completedAt = &now
	}

	if err := s.repos.Task.UpdateStatus(ctx, id, status, completedAt); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infof("Task %d status changed: %s -> %s", id, task.Status, status)

	return nil
}

// Delete deletes a task
func (s *TaskSvc) Delete(ctx context.Context, id int) error {
	return s.repos.Task.Delete(ctx, id)
}

func (s *TaskSvc) notifyAssignee(ctx context.Context, staffID int, title, body string) {
	notification := &models.Notification{
		RecipientID: staffID,
		Kind:        models.NotificationKindTask,
		Title:       title,
		Body:        body,
	}

	if _, err := s.repos.Notification.Create(ctx, notification); err != nil {
		s.logger.Warnf("Failed to notify staff member %d: %v", staffID, err)
		return
	}

	if err := s.cache.Delete(ctx, unreadCountCacheKey(staffID)); err != nil {
		s.logger.Warnf("Failed to invalidate unread count cache: %v", err)
	}
}
