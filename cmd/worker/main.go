package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	contactRepo "contacthub-backend/internal/contact/repository"
	duplicateRepo "contacthub-backend/internal/duplicate/repository"
	"contacthub-backend/internal/duplicate/worker"
	statusRepo "contacthub-backend/internal/status/repository"
	taskRepo "contacthub-backend/internal/task/repository"
	taskUsecase "contacthub-backend/internal/task/usecase"
	"contacthub-backend/pkg/config"
	"contacthub-backend/pkg/database"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	logger := slog.Default().With("component", "Worker")

	cfg := config.Load()

	db, err := database.NewConnection(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := database.Migrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	refreshWorker := worker.NewRefreshWorker(
		contactRepo.NewContactRepository(db),
		duplicateRepo.NewCacheRepository(db),
		statusRepo.NewStatusRepository(db),
		taskUsecase.NewTaskUsecase(taskRepo.NewGormTaskRepository(db)),
		worker.SettingsFromConfig(cfg),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := refreshWorker.Run(ctx); err != nil {
		logger.Error("refresh worker exited", "error", err)
	}
}
