package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ops-portal/internal/models"
)

// TaskRepo is a PostgreSQL implementation of the repository.TaskRepository interface
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepo
func NewTaskRepository(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = `id, title, description, status, priority, assignee_id,
	due_date, completed_at, created_at, updated_at`

// Create creates a new task in the database
func (r *TaskRepo) Create(ctx context.Context, task *models.Task) (int, error) {
	query := `INSERT INTO tasks (title, description, status, priority, assignee_id, due_date)
	         VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssigneeID,
		task.DueDate,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	return id, nil
}

// GetByID gets a task by ID
func (r *TaskRepo) GetByID(ctx context.Context, id int) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// GetAll gets tasks, optionally filtered by status and assignee. Zero values
// mean no filter.
func (r *TaskRepo) GetAll(ctx context.Context, status models.TaskStatus, assigneeID int) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
	         WHERE ($1 = '' OR status = $1)
	           AND ($2 = 0 OR assignee_id = $2)
	         ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, string(status), assigneeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Update updates a task
func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	query := `UPDATE tasks
	         SET title = $1, description = $2, priority = $3, assignee_id = $4,
	             due_date = $5, updated_at = NOW()
	         WHERE id = $6`

	result, err := r.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Priority,
		task.AssigneeID,
		task.DueDate,
		task.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return requireRowsAffected(result, "task")
}

// UpdateStatus updates the status of a task; completedAt is set when the task
// moves to done and cleared otherwise
func (r *TaskRepo) UpdateStatus(ctx context.Context, id int, status models.TaskStatus, completedAt *time.Time) error {
	query := `UPDATE tasks SET status = $1, completed_at = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	return requireRowsAffected(result, "task")
}

// Delete deletes a task
func (r *TaskRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return requireRowsAffected(result, "task")
}

// CountByStatus counts tasks per status
func (r *TaskRepo) CountByStatus(ctx context.Context) (map[models.TaskStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.TaskStatus]int)
	for rows.Next() {
		var status models.TaskStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan task count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return counts, nil
}

// GetCreatedBetween gets tasks created in the half-open interval [start, end)
func (r *TaskRepo) GetCreatedBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
	         WHERE created_at >= $1 AND created_at < $2
	         ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GetCompletedBetween gets tasks completed in the half-open interval [start, end)
func (r *TaskRepo) GetCompletedBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
	         WHERE completed_at IS NOT NULL AND completed_at >= $1 AND completed_at < $2
	         ORDER BY completed_at`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTask(row scanner) (*models.Task, error) {
	task := &models.Task{}
	var assignee sql.NullInt64
	var dueDate, completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&assignee,
		&dueDate,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignee.Valid {
		id := int(assignee.Int64)
		task.AssigneeID = &id
	}
	if dueDate.Valid {
		d := dueDate.Time
		task.DueDate = &d
	}
	if completedAt.Valid {
		d := completedAt.Time
		task.CompletedAt = &d
	}

	return task, nil
}

func scanTasks(rows *sql.Rows) ([]*models.Task, error) {
	var tasks []*models.Task

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tasks, nil
}
