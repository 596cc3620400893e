package scheduler

import (
	"log/slog"
	"time"

	"contacthub-backend/internal/task/usecase"
)

// TaskMaintenanceScheduler fails abandoned task records and prunes old ones
type TaskMaintenanceScheduler struct {
	taskUsecase usecase.TaskUsecase
	interval    time.Duration
	staleAfter  time.Duration
	retention   time.Duration
	stopChan    chan struct{}
	logger      *slog.Logger
}

// NewTaskMaintenanceScheduler creates a new scheduler
func NewTaskMaintenanceScheduler(taskUsecase usecase.TaskUsecase, interval, staleAfter, retention time.Duration) *TaskMaintenanceScheduler {
	return &TaskMaintenanceScheduler{
		taskUsecase: taskUsecase,
		interval:    interval,
		staleAfter:  staleAfter,
		retention:   retention,
		stopChan:    make(chan struct{}),
		logger:      slog.Default().With("component", "TaskScheduler"),
	}
}

// Start begins the scheduler loop
func (s *TaskMaintenanceScheduler) Start() {
	s.logger.Info("starting task maintenance scheduler", "interval", s.interval)

	go func() {
		// Run immediately on start
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				s.logger.Info("scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *TaskMaintenanceScheduler) Stop() {
	close(s.stopChan)
}

func (s *TaskMaintenanceScheduler) sweep() {
	failed, err := s.taskUsecase.FailStale(s.staleAfter)
	if err != nil {
		s.logger.Error("error finding stale tasks", "error", err)
	} else if failed > 0 {
		s.logger.Warn("marked abandoned tasks as failed", "count", failed)
	}

	pruned, err := s.taskUsecase.Prune(s.retention)
	if err != nil {
		s.logger.Error("error pruning finished tasks", "error", err)
	} else if pruned > 0 {
		s.logger.Info("pruned finished tasks", "count", pruned)
	}
}
