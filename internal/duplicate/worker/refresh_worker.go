package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	contactrepo "contacthub-backend/internal/contact/repository"
	"contacthub-backend/internal/duplicate/domain"
	"contacthub-backend/internal/duplicate/repository"
	"contacthub-backend/internal/duplicate/scorer"
	statusrepo "contacthub-backend/internal/status/repository"
	taskdomain "contacthub-backend/internal/task/domain"
	"contacthub-backend/pkg/config"
)

// ErrHandshakeTimeout is returned when the interactive process never marked itself ready
var ErrHandshakeTimeout = errors.New("interactive process did not become ready")

// TaskTracker records the progress of each refresh cycle
type TaskTracker interface {
	Start(kind taskdomain.TaskKind, title string) (*taskdomain.Task, error)
	Progress(taskID string, percent int, message string) error
	Complete(taskID, message string) error
	Fail(taskID string, cause error) error
}

// Settings controls the refresh loop timing and scoring
type Settings struct {
	Interval          time.Duration
	RetryInterval     time.Duration
	StartupDelay      time.Duration
	HandshakeAttempts int
	HandshakeInterval time.Duration
	Threshold         float64
	Workers           int
}

// SettingsFromConfig maps the process configuration onto worker settings
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Interval:          cfg.RefreshInterval,
		RetryInterval:     cfg.RetryInterval,
		StartupDelay:      cfg.StartupDelay,
		HandshakeAttempts: cfg.HandshakeAttempts,
		HandshakeInterval: cfg.HandshakeInterval,
		Threshold:         cfg.CacheThreshold,
		Workers:           cfg.ScorerWorkers,
	}
}

// CycleResult summarizes one successful refresh
type CycleResult struct {
	Contacts  int
	Pairs     int
	UpdatedAt time.Time
}

// RefreshWorker periodically recomputes the duplicate cache.
// It is the only writer of the cache table and of the cache readiness record.
type RefreshWorker struct {
	contactRepo contactrepo.ContactRepository
	cacheRepo   repository.CacheRepository
	statusRepo  statusrepo.StatusRepository
	tasks       TaskTracker
	settings    Settings
	logger      *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	warmedUp bool
}

// NewRefreshWorker creates a new refresh worker. tasks may be nil.
func NewRefreshWorker(
	contactRepo contactrepo.ContactRepository,
	cacheRepo repository.CacheRepository,
	statusRepo statusrepo.StatusRepository,
	tasks TaskTracker,
	settings Settings,
) *RefreshWorker {
	return &RefreshWorker{
		contactRepo: contactRepo,
		cacheRepo:   cacheRepo,
		statusRepo:  statusRepo,
		tasks:       tasks,
		settings:    settings,
		logger:      slog.Default().With("component", "RefreshWorker"),
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Run refreshes the cache until ctx is cancelled. A failed cycle is logged and
// retried after the retry interval; it never stops the loop. Cancellation is
// observed only while waiting, never in the middle of a cycle.
func (w *RefreshWorker) Run(ctx context.Context) error {
	w.logger.Info("refresh worker starting",
		"interval", w.settings.Interval, "threshold", w.settings.Threshold)

	for {
		wait := w.settings.Interval

		result, err := w.RunCycle(ctx)
		switch {
		case ctx.Err() != nil:
			w.logger.Info("refresh worker stopped")
			return nil
		case err != nil:
			w.logger.Error("duplicate refresh failed", "error", err, "retry_in", w.settings.RetryInterval)
			wait = w.settings.RetryInterval
		default:
			w.logger.Info("duplicate refresh completed",
				"contacts", result.Contacts, "pairs", result.Pairs, "next_in", wait)
		}

		if err := w.sleep(ctx, wait); err != nil {
			w.logger.Info("refresh worker stopped")
			return nil
		}
	}
}

// RunCycle performs one handshake-gated refresh
func (w *RefreshWorker) RunCycle(ctx context.Context) (*CycleResult, error) {
	if err := w.WaitForHandshake(ctx); err != nil {
		return nil, err
	}

	if !w.warmedUp {
		if err := w.sleep(ctx, w.settings.StartupDelay); err != nil {
			return nil, err
		}
		w.warmedUp = true
	}

	return w.Refresh(context.WithoutCancel(ctx))
}

// WaitForHandshake polls the interactive process's ready marker
func (w *RefreshWorker) WaitForHandshake(ctx context.Context) error {
	for attempt := 1; attempt <= w.settings.HandshakeAttempts; attempt++ {
		ready, err := w.statusRepo.IsInteractiveReady()
		if err != nil {
			w.logger.Warn("could not read handshake marker", "attempt", attempt, "error", err)
		} else if ready {
			return nil
		}

		if attempt == w.settings.HandshakeAttempts {
			break
		}
		w.logger.Debug("waiting for interactive process", "attempt", attempt)
		if err := w.sleep(ctx, w.settings.HandshakeInterval); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w after %d attempts", ErrHandshakeTimeout, w.settings.HandshakeAttempts)
}

// Refresh recomputes the cache from the current contacts and publishes readiness
func (w *RefreshWorker) Refresh(ctx context.Context) (*CycleResult, error) {
	taskID := w.startTask()

	result, err := w.refresh(ctx, taskID)
	if err != nil {
		w.finishTask(taskID, err, "")
		return nil, err
	}

	w.finishTask(taskID, nil, fmt.Sprintf("%d pairs from %d contacts", result.Pairs, result.Contacts))
	return result, nil
}

func (w *RefreshWorker) refresh(ctx context.Context, taskID string) (*CycleResult, error) {
	contacts, err := w.contactRepo.List()
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	w.progress(taskID, 10, fmt.Sprintf("loaded %d contacts", len(contacts)))

	pairs, err := scorer.FindDuplicates(ctx, contacts, w.settings.Threshold, w.settings.Workers)
	if err != nil {
		return nil, fmt.Errorf("score contacts: %w", err)
	}
	w.progress(taskID, 80, fmt.Sprintf("scored %d candidate pairs", len(pairs)))

	updatedAt := w.now()
	entries := make([]*domain.DuplicateCacheEntry, 0, len(pairs))
	for _, p := range pairs {
		entries = append(entries, &domain.DuplicateCacheEntry{
			Contact1ID:  p.Contact1ID,
			Contact2ID:  p.Contact2ID,
			Confidence:  p.Confidence,
			Reasons:     domain.StringArray(p.Reasons),
			LastUpdated: updatedAt,
		})
	}

	if err := w.cacheRepo.Replace(entries); err != nil {
		return nil, fmt.Errorf("replace duplicate cache: %w", err)
	}
	if err := w.statusRepo.MarkCacheRefreshed(updatedAt); err != nil {
		return nil, fmt.Errorf("write cache status: %w", err)
	}

	return &CycleResult{Contacts: len(contacts), Pairs: len(entries), UpdatedAt: updatedAt}, nil
}

func (w *RefreshWorker) startTask() string {
	if w.tasks == nil {
		return ""
	}
	task, err := w.tasks.Start(taskdomain.TaskKindDuplicateRefresh, "Duplicate cache refresh")
	if err != nil {
		w.logger.Warn("could not record refresh task", "error", err)
		return ""
	}
	return task.ID
}

func (w *RefreshWorker) progress(taskID string, percent int, message string) {
	if w.tasks == nil || taskID == "" {
		return
	}
	if err := w.tasks.Progress(taskID, percent, message); err != nil {
		w.logger.Warn("could not record refresh progress", "task_id", taskID, "error", err)
	}
}

func (w *RefreshWorker) finishTask(taskID string, cause error, message string) {
	if w.tasks == nil || taskID == "" {
		return
	}
	var err error
	if cause != nil {
		err = w.tasks.Fail(taskID, cause)
	} else {
		err = w.tasks.Complete(taskID, message)
	}
	if err != nil {
		w.logger.Warn("could not finish refresh task", "task_id", taskID, "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
