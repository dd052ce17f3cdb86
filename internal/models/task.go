package models

import (
	"errors"
	"time"
)

// TaskStatus defines the status of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority defines the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task represents a work item on the operations board
type Task struct {
	ID          int          `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description,omitempty" db:"description"`
	Status      TaskStatus   `json:"status" db:"status"`
	Priority    TaskPriority `json:"priority" db:"priority"`
	AssigneeID  *int         `json:"assignee_id,omitempty" db:"assignee_id"`
	DueDate     *time.Time   `json:"due_date,omitempty" db:"due_date"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// TaskRequest represents a task create/update request
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	AssigneeID  *int   `json:"assignee_id,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// ValidateTaskRequest validates task request data
func (t *TaskRequest) ValidateTaskRequest() error {
	if t.Title == "" {
		return errors.New("title is required")
	}

	if t.Priority != "" {
		switch TaskPriority(t.Priority) {
		case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		default:
			return errors.New("priority must be low, medium or high")
		}
	}

	if t.DueDate != "" {
		if _, err := time.Parse("2006-01-02", t.DueDate); err != nil {
			return errors.New("due date must use the yyyy-mm-dd format")
		}
	}

	return nil
}

// ToTask converts TaskRequest to Task
func (t *TaskRequest) ToTask() *Task {
	task := &Task{
		Title:       t.Title,
		Description: t.Description,
		Status:      TaskStatusTodo,
		Priority:    TaskPriorityMedium,
		AssigneeID:  t.AssigneeID,
	}

	if t.Priority != "" {
		task.Priority = TaskPriority(t.Priority)
	}
	if d, err := time.Parse("2006-01-02", t.DueDate); err == nil && t.DueDate != "" {
		task.DueDate = &d
	}

	return task
}

// ValidTaskStatus reports whether a status value is known
func ValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}
