package domain

import "time"

// TaskKind identifies which background job a task record tracks
type TaskKind string

const (
	TaskKindDuplicateRefresh TaskKind = "duplicate_refresh"
	TaskKindSourceSync       TaskKind = "source_sync"
	TaskKindCSVImport        TaskKind = "csv_import"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task is a persisted progress record of one background job run.
// Both processes write tasks; the interactive API lists them.
type Task struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	Kind       TaskKind   `json:"kind" gorm:"index;not null"`
	Title      string     `json:"title" gorm:"not null"`
	Status     TaskStatus `json:"status" gorm:"index;not null"`
	Progress   int        `json:"progress"` // 0-100
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Done reports whether the task reached a terminal state
func (t *Task) Done() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}
