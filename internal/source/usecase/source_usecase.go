package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	contactdomain "contacthub-backend/internal/contact/domain"
	contactrepo "contacthub-backend/internal/contact/repository"
	"contacthub-backend/internal/source/domain"
	"contacthub-backend/internal/source/dto"
	"contacthub-backend/internal/source/repository"
	taskdomain "contacthub-backend/internal/task/domain"
	taskusecase "contacthub-backend/internal/task/usecase"
	"contacthub-backend/pkg/carddav"
	"contacthub-backend/pkg/crypto"
	"contacthub-backend/pkg/csvimport"
	"contacthub-backend/pkg/gmail"
	"contacthub-backend/pkg/imap"

	"golang.org/x/oauth2"
)

// progressEvery is how many upserted contacts pass between task progress writes
const progressEvery = 50

type sourceUsecase struct {
	sourceRepo  repository.SourceRepository
	contactRepo contactrepo.ContactRepository
	tasks       taskusecase.TaskUsecase
	gmail       *gmail.Service
	box         *crypto.Box
	stateSecret []byte
	logger      *slog.Logger
	now         func() time.Time

	// newConnector builds the connector for a stored source and its decrypted secret
	newConnector func(source *domain.SourceConfig, secret string) (contactdomain.ContactSource, error)

	running sync.WaitGroup
}

func NewSourceUsecase(
	sourceRepo repository.SourceRepository,
	contactRepo contactrepo.ContactRepository,
	tasks taskusecase.TaskUsecase,
	gmailService *gmail.Service,
	box *crypto.Box,
	stateSecret string,
) SourceUsecase {
	u := &sourceUsecase{
		sourceRepo:  sourceRepo,
		contactRepo: contactRepo,
		tasks:       tasks,
		gmail:       gmailService,
		box:         box,
		stateSecret: []byte(stateSecret),
		logger:      slog.Default().With("component", "SourceUsecase"),
		now:         time.Now,
	}
	u.newConnector = u.buildConnector
	return u
}

func (u *sourceUsecase) GmailAuthURL() (*dto.AuthURLResponse, error) {
	state, err := u.signState()
	if err != nil {
		return nil, fmt.Errorf("sign oauth state: %w", err)
	}
	return &dto.AuthURLResponse{URL: u.gmail.AuthCodeURL(state), State: state}, nil
}

func (u *sourceUsecase) Configure(ctx context.Context, req *dto.CreateSourceRequest) (*domain.SourceConfig, error) {
	var (
		settings interface{}
		secret   string
		name     = strings.TrimSpace(req.Name)
	)

	switch req.SourceType {
	case domain.SourceTypeGmail:
		if req.Code == "" {
			return nil, fmt.Errorf("%w: authorization code is required", domain.ErrInvalidSourceConfig)
		}
		if err := u.verifyState(req.State); err != nil {
			return nil, err
		}
		token, err := u.gmail.Exchange(ctx, req.Code)
		if err != nil {
			return nil, err
		}
		secret = token.RefreshToken
		settings = domain.GmailSettings{}
		if name == "" {
			name = "Gmail"
		}

	case domain.SourceTypeIMAP:
		if req.Username == "" || req.Password == "" {
			return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidSourceConfig)
		}
		imapSettings := domain.IMAPSettings{
			Provider: strings.ToLower(strings.TrimSpace(req.Provider)),
			Host:     req.Host,
			Port:     req.Port,
			Username: req.Username,
			Folder:   req.Folder,
		}
		// Resolves provider presets and rejects a custom provider without a host
		if _, err := imap.NewContactSource(imapConfig(imapSettings, req.Password)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSourceConfig, err)
		}
		secret = req.Password
		settings = imapSettings
		if name == "" {
			name = fmt.Sprintf("%s (%s)", providerLabel(imapSettings.Provider), req.Username)
		}

	case domain.SourceTypeCardDAV:
		if req.Username == "" || req.Password == "" {
			return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidSourceConfig)
		}
		davSettings := domain.CardDAVSettings{
			Provider: strings.ToLower(strings.TrimSpace(req.Provider)),
			URL:      strings.TrimSpace(req.URL),
			Username: req.Username,
		}
		if _, err := carddav.NewContactSource(carddavConfig(davSettings, req.Password)); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSourceConfig, err)
		}
		secret = req.Password
		settings = davSettings
		if name == "" && davSettings.Provider != "" {
			name = fmt.Sprintf("%s CardDAV (%s)", providerLabel(davSettings.Provider), req.Username)
		} else if name == "" {
			name = fmt.Sprintf("CardDAV (%s)", req.Username)
		}

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, req.SourceType)
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	sealed, err := u.box.Seal([]byte(secret))
	if err != nil {
		return nil, err
	}

	source := &domain.SourceConfig{
		SourceType: req.SourceType,
		Name:       name,
		Config:     raw,
		Secret:     sealed,
	}
	if err := u.sourceRepo.Create(source); err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	u.logger.Info("source configured", "source_id", source.ID, "type", source.SourceType)
	return source, nil
}

func (u *sourceUsecase) ListSources() ([]*domain.SourceConfig, error) {
	return u.sourceRepo.List()
}

func (u *sourceUsecase) Disconnect(id string) error {
	if err := u.sourceRepo.Delete(id); err != nil {
		return err
	}
	u.logger.Info("source disconnected", "source_id", id)
	return nil
}

func (u *sourceUsecase) Sync(ctx context.Context, id string) (*dto.SyncResponse, error) {
	source, err := u.getSource(id)
	if err != nil {
		return nil, err
	}
	secret, err := u.box.Open(source.Secret)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", id, err)
	}
	connector, err := u.newConnector(source, string(secret))
	if err != nil {
		return nil, err
	}

	task, err := u.tasks.Start(taskdomain.TaskKindSourceSync, "Sync "+source.Name)
	if err != nil {
		return nil, err
	}

	u.recordSync(source.ID, domain.SyncStatusRunning, nil)

	u.running.Add(1)
	go func() {
		defer u.running.Done()
		u.runSync(context.WithoutCancel(ctx), source, connector, task.ID)
	}()

	return &dto.SyncResponse{TaskID: task.ID, SourceID: source.ID}, nil
}

func (u *sourceUsecase) Wait() {
	u.running.Wait()
}

func (u *sourceUsecase) runSync(ctx context.Context, source *domain.SourceConfig, connector contactdomain.ContactSource, taskID string) {
	logger := u.logger.With("source_id", source.ID, "task_id", taskID)

	contacts, err := connector.FetchContacts(ctx)
	if err == nil {
		_, _, err = u.importContacts(contacts, taskID)
	}

	finishedAt := u.now()
	if err != nil {
		logger.Error("sync failed", "error", err)
		u.failTask(taskID, err)
		u.recordSync(source.ID, domain.SyncStatusFailed, &finishedAt)
		return
	}
	u.recordSync(source.ID, domain.SyncStatusCompleted, &finishedAt)
}

// recordSync re-reads the source so a refresh token rotated during the sync is kept
func (u *sourceUsecase) recordSync(id, status string, at *time.Time) {
	source, err := u.getSource(id)
	if err != nil {
		u.logger.Warn("failed to record sync status", "source_id", id, "status", status, "error", err)
		return
	}
	source.LastSyncStatus = status
	if at != nil {
		source.LastSyncedAt = at
	}
	if err := u.sourceRepo.Update(source); err != nil {
		u.logger.Warn("failed to record sync status", "source_id", id, "status", status, "error", err)
	}
}

func (u *sourceUsecase) PreviewCSV(r io.Reader) (*csvimport.Preview, error) {
	return csvimport.PreviewCSV(r)
}

func (u *sourceUsecase) ImportCSV(provider string, r io.Reader) (*dto.ImportResult, error) {
	importer := csvimport.NewImporter(provider)

	task, err := u.tasks.Start(taskdomain.TaskKindCSVImport, "Import "+importer.Source())
	if err != nil {
		return nil, err
	}

	contacts, err := importer.Parse(r)
	if err != nil {
		u.failTask(task.ID, err)
		return nil, err
	}

	imported, skipped, err := u.importContacts(contacts, task.ID)
	if err != nil {
		u.failTask(task.ID, err)
		return nil, err
	}

	return &dto.ImportResult{
		TaskID:   task.ID,
		Source:   importer.Source(),
		Imported: imported,
		Skipped:  skipped,
	}, nil
}

// importContacts upserts every contact with valid metadata, reporting
// progress on taskID, and completes the task when all rows are written.
func (u *sourceUsecase) importContacts(contacts []*contactdomain.Contact, taskID string) (imported, skipped int, err error) {
	total := len(contacts)
	for i, contact := range contacts {
		if err := contactdomain.ValidateMetadata(contact.Metadata); err != nil {
			u.logger.Warn("skipping contact with invalid metadata", "contact_id", contact.ID, "error", err)
			skipped++
			continue
		}
		if err := u.contactRepo.Upsert(contact); err != nil {
			return imported, skipped, fmt.Errorf("upsert contact %s: %w", contact.ID, err)
		}
		imported++

		if done := i + 1; done%progressEvery == 0 && done < total {
			msg := fmt.Sprintf("Imported %d of %d contacts", done, total)
			if err := u.tasks.Progress(taskID, done*100/total, msg); err != nil {
				u.logger.Warn("failed to update task progress", "task_id", taskID, "error", err)
			}
		}
	}

	msg := fmt.Sprintf("Imported %d contacts", imported)
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d skipped)", skipped)
	}
	if err := u.tasks.Complete(taskID, msg); err != nil {
		u.logger.Warn("failed to complete task", "task_id", taskID, "error", err)
	}
	return imported, skipped, nil
}

func (u *sourceUsecase) failTask(taskID string, cause error) {
	if err := u.tasks.Fail(taskID, cause); err != nil {
		u.logger.Warn("failed to mark task failed", "task_id", taskID, "error", err)
	}
}

func (u *sourceUsecase) getSource(id string) (*domain.SourceConfig, error) {
	source, err := u.sourceRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, id)
	}
	return source, nil
}

func (u *sourceUsecase) buildConnector(source *domain.SourceConfig, secret string) (contactdomain.ContactSource, error) {
	switch source.SourceType {
	case domain.SourceTypeGmail:
		return gmail.NewContactSource(u.gmail, secret, u.tokenRefresher(source.ID, secret)), nil

	case domain.SourceTypeIMAP:
		var settings domain.IMAPSettings
		if err := json.Unmarshal(source.Config, &settings); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSourceConfig, err)
		}
		return imap.NewContactSource(imapConfig(settings, secret))

	case domain.SourceTypeCardDAV:
		var settings domain.CardDAVSettings
		if err := json.Unmarshal(source.Config, &settings); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSourceConfig, err)
		}
		return carddav.NewContactSource(carddavConfig(settings, secret))

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, source.SourceType)
	}
}

// tokenRefresher stores a rotated refresh token so the next sync can still authenticate
func (u *sourceUsecase) tokenRefresher(sourceID, current string) gmail.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		if token.RefreshToken == "" || token.RefreshToken == current {
			return nil
		}
		source, err := u.getSource(sourceID)
		if err != nil {
			return err
		}
		sealed, err := u.box.Seal([]byte(token.RefreshToken))
		if err != nil {
			return err
		}
		source.Secret = sealed
		current = token.RefreshToken
		return u.sourceRepo.Update(source)
	}
}

func imapConfig(settings domain.IMAPSettings, password string) imap.Config {
	return imap.Config{
		Provider: settings.Provider,
		Host:     settings.Host,
		Port:     settings.Port,
		Username: settings.Username,
		Password: password,
		Folder:   settings.Folder,
	}
}

func carddavConfig(settings domain.CardDAVSettings, password string) carddav.Config {
	return carddav.Config{
		Provider: settings.Provider,
		URL:      settings.URL,
		Username: settings.Username,
		Password: password,
	}
}

func providerLabel(provider string) string {
	if provider == "" {
		return "IMAP"
	}
	return strings.ToUpper(provider[:1]) + provider[1:]
}

// IsClientError reports whether err was caused by the request rather than the server
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidSourceConfig) ||
		errors.Is(err, domain.ErrUnsupportedSource) ||
		errors.Is(err, csvimport.ErrNoKnownColumns)
}
