package repository

import (
	"time"

	"contacthub-backend/internal/task/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *domain.Task) error

	// FindByID finds a task by its ID
	FindByID(id string) (*domain.Task, error)

	// FindRecent returns the newest tasks first, optionally filtered by status
	FindRecent(status *domain.TaskStatus, limit, offset int) ([]*domain.Task, int64, error)

	// Update updates an existing task
	Update(task *domain.Task) error

	// Delete deletes a task by ID
	Delete(id string) error

	// FindStale finds running tasks started before the cutoff
	FindStale(startedBefore time.Time) ([]*domain.Task, error)

	// DeleteFinishedBefore removes terminal tasks that finished before the cutoff
	DeleteFinishedBefore(cutoff time.Time) (int64, error)
}
