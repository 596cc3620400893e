package usecase

import (
	"errors"
	"time"

	"contacthub-backend/internal/task/domain"
)

// ErrTaskNotFound is returned when a task id does not exist
var ErrTaskNotFound = errors.New("task not found")

// TaskUsecase tracks the progress of background jobs
type TaskUsecase interface {
	// Start records a new running task
	Start(kind domain.TaskKind, title string) (*domain.Task, error)

	// Progress updates the percentage (clamped to 0-100) and message of a running task
	Progress(taskID string, percent int, message string) error

	// Complete marks the task completed at 100%
	Complete(taskID, message string) error

	// Fail marks the task failed with the error text
	Fail(taskID string, cause error) error

	// GetTask retrieves a task by ID
	GetTask(taskID string) (*domain.Task, error)

	// ListTasks returns the newest tasks first with an optional status filter
	ListTasks(status *string, limit, offset int) ([]*domain.Task, int64, error)

	// FailStale marks tasks still running after maxAge as failed.
	// A process that died mid-job leaves such records behind.
	FailStale(maxAge time.Duration) (int, error)

	// Prune removes finished tasks older than retention
	Prune(retention time.Duration) (int64, error)
}
