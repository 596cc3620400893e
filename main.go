package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "contacthub-backend/cmd/api"
	"contacthub-backend/internal/command"
	contactRepo "contacthub-backend/internal/contact/repository"
	contactUsecase "contacthub-backend/internal/contact/usecase"
	duplicateRepo "contacthub-backend/internal/duplicate/repository"
	duplicateUsecase "contacthub-backend/internal/duplicate/usecase"
	sourceRepo "contacthub-backend/internal/source/repository"
	sourceUsecase "contacthub-backend/internal/source/usecase"
	statusRepo "contacthub-backend/internal/status/repository"
	taskRepo "contacthub-backend/internal/task/repository"
	"contacthub-backend/internal/task/scheduler"
	taskUsecase "contacthub-backend/internal/task/usecase"
	"contacthub-backend/pkg/config"
	"contacthub-backend/pkg/crypto"
	"contacthub-backend/pkg/database"
	"contacthub-backend/pkg/gmail"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	logger := slog.Default().With("component", "Server")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize repositories (dependency injection)
	contactRepository := contactRepo.NewContactRepository(db)
	cacheRepository := duplicateRepo.NewCacheRepository(db)
	statusRepository := statusRepo.NewStatusRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	sourceRepository := sourceRepo.NewSourceRepository(db)

	box, err := crypto.NewBox(cfg.SourceSecretKey)
	if err != nil {
		logger.Error("failed to initialize credential encryption", "error", err)
		os.Exit(1)
	}
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)

	// Initialize use cases (dependency injection)
	commands := command.NewManager(cfg.UndoHistoryLimit)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository)
	contactUsecaseInstance := contactUsecase.NewContactUsecase(contactRepository, commands)
	duplicateUsecaseInstance := duplicateUsecase.NewDuplicateUsecase(cacheRepository, contactRepository, statusRepository)
	sourceUsecaseInstance := sourceUsecase.NewSourceUsecase(sourceRepository, contactRepository, taskUsecaseInstance, gmailService, box, cfg.SourceSecretKey)

	taskScheduler := scheduler.NewTaskMaintenanceScheduler(taskUsecaseInstance, cfg.TaskSweepInterval, cfg.TaskStaleAfter, cfg.TaskRetention)
	taskScheduler.Start()

	handler := api.NewHandler(contactUsecaseInstance, duplicateUsecaseInstance, taskUsecaseInstance, sourceUsecaseInstance)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server starting", "port", cfg.Port)
	// The refresh worker waits for the readiness marker before each cycle
	serverErr, err := serve(srv, func() error {
		return statusRepository.SignalReady(os.Getpid())
	})
	if err != nil {
		logger.Error("failed to bind listener", "addr", srv.Addr, "error", err)
		taskScheduler.Stop()
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
		exitCode = 1
	}

	if err := statusRepository.ClearReady(); err != nil {
		logger.Error("failed to clear readiness", "error", err)
	}
	taskScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	sourceUsecaseInstance.Wait()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	os.Exit(exitCode)
}

// serve binds srv.Addr and starts serving in the background. ready runs only
// once the listener is bound; a ready failure is logged but does not stop the server.
func serve(srv *http.Server, ready func() error) (<-chan error, error) {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if err := ready(); err != nil {
		slog.Default().With("component", "Server").Error("failed to signal readiness", "error", err)
	}
	return serverErr, nil
}
