package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"contacthub-backend/internal/task/domain"
	"contacthub-backend/internal/task/repository"
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(taskRepo repository.TaskRepository) TaskUsecase {
	return &taskUsecase{
		taskRepo: taskRepo,
		logger:   slog.Default().With("component", "TaskUsecase"),
		now:      time.Now,
	}
}

func (u *taskUsecase) Start(kind domain.TaskKind, title string) (*domain.Task, error) {
	task := &domain.Task{
		Kind:      kind,
		Title:     title,
		Status:    domain.TaskStatusRunning,
		StartedAt: u.now(),
	}
	if err := u.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (u *taskUsecase) Progress(taskID string, percent int, message string) error {
	task, err := u.GetTask(taskID)
	if err != nil {
		return err
	}
	if task.Done() {
		return nil
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	task.Progress = percent
	task.Message = message
	return u.taskRepo.Update(task)
}

func (u *taskUsecase) Complete(taskID, message string) error {
	task, err := u.GetTask(taskID)
	if err != nil {
		return err
	}

	finished := u.now()
	task.Status = domain.TaskStatusCompleted
	task.Progress = 100
	task.Message = message
	task.FinishedAt = &finished
	return u.taskRepo.Update(task)
}

func (u *taskUsecase) Fail(taskID string, cause error) error {
	task, err := u.GetTask(taskID)
	if err != nil {
		return err
	}

	finished := u.now()
	task.Status = domain.TaskStatusFailed
	if cause != nil {
		task.Error = cause.Error()
	}
	task.FinishedAt = &finished
	return u.taskRepo.Update(task)
}

func (u *taskUsecase) GetTask(taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return task, nil
}

func (u *taskUsecase) ListTasks(status *string, limit, offset int) ([]*domain.Task, int64, error) {
	var statusFilter *domain.TaskStatus
	if status != nil && *status != "" {
		s := domain.TaskStatus(*status)
		statusFilter = &s
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.taskRepo.FindRecent(statusFilter, limit, offset)
}

func (u *taskUsecase) FailStale(maxAge time.Duration) (int, error) {
	tasks, err := u.taskRepo.FindStale(u.now().Add(-maxAge))
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, task := range tasks {
		finished := u.now()
		task.Status = domain.TaskStatusFailed
		task.Error = fmt.Sprintf("abandoned: still running after %s", maxAge)
		task.FinishedAt = &finished
		if err := u.taskRepo.Update(task); err != nil {
			u.logger.Error("failed to mark stale task", "task_id", task.ID, "error", err)
			continue
		}
		failed++
	}
	return failed, nil
}

func (u *taskUsecase) Prune(retention time.Duration) (int64, error) {
	return u.taskRepo.DeleteFinishedBefore(u.now().Add(-retention))
}
