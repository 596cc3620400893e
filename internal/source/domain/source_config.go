package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Supported connector types
const (
	SourceTypeGmail   = "gmail"
	SourceTypeIMAP    = "imap"
	SourceTypeCardDAV = "carddav"
)

var (
	// ErrSourceNotFound is returned when a source config id does not exist
	ErrSourceNotFound = errors.New("source not found")
	// ErrUnsupportedSource is returned for an unknown source_type
	ErrUnsupportedSource = errors.New("unsupported source type")
	// ErrInvalidSourceConfig is returned when required connection fields are missing
	ErrInvalidSourceConfig = errors.New("invalid source configuration")
)

// SourceConfig is a configured address-book connection.
// Secret holds the encrypted credential (refresh token or password).
type SourceConfig struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	SourceType     string         `json:"source_type" gorm:"index;not null"`
	Name           string         `json:"name" gorm:"not null"`
	Config         datatypes.JSON `json:"config" gorm:"not null"`
	Secret         []byte         `json:"-"`
	LastSyncedAt   *time.Time     `json:"last_synced_at,omitempty"`
	LastSyncStatus string         `json:"last_sync_status,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Sync outcomes recorded on the source
const (
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// TableName specifies the table name for GORM
func (SourceConfig) TableName() string {
	return "source_configs"
}

// IMAPSettings is the non-secret part of an IMAP source config
type IMAPSettings struct {
	Provider string `json:"provider"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Folder   string `json:"folder,omitempty"`
}

// CardDAVSettings is the non-secret part of a CardDAV source config
type CardDAVSettings struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

// GmailSettings is the non-secret part of a Gmail source config
type GmailSettings struct {
	Account string `json:"account,omitempty"`
}
