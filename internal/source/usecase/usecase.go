package usecase

import (
	"context"
	"io"

	"contacthub-backend/internal/source/domain"
	"contacthub-backend/internal/source/dto"
	"contacthub-backend/pkg/csvimport"
)

// SourceUsecase manages source connections and brings their contacts in
type SourceUsecase interface {
	// GmailAuthURL returns the Google consent page for connecting an account
	GmailAuthURL() (*dto.AuthURLResponse, error)
	// Configure stores a new connection with its credential encrypted
	Configure(ctx context.Context, req *dto.CreateSourceRequest) (*domain.SourceConfig, error)
	ListSources() ([]*domain.SourceConfig, error)
	// Disconnect removes the connection. Contacts already imported stay.
	Disconnect(id string) error

	// Sync starts a background fetch of the source and returns its task id
	Sync(ctx context.Context, id string) (*dto.SyncResponse, error)
	// Wait blocks until every sync started by Sync has finished
	Wait()

	PreviewCSV(r io.Reader) (*csvimport.Preview, error)
	// ImportCSV parses an export from provider and upserts its rows
	ImportCSV(provider string, r io.Reader) (*dto.ImportResult, error)
}
