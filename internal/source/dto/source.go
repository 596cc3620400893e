package dto

import "contacthub-backend/pkg/csvimport"

// CreateSourceRequest configures a Gmail, IMAP or CardDAV connection.
// Gmail needs an authorization code; IMAP and CardDAV need username and password.
type CreateSourceRequest struct {
	SourceType string `json:"source_type" binding:"required,oneof=gmail imap carddav"`
	Name       string `json:"name"`

	// Gmail
	Code  string `json:"code"`
	State string `json:"state"`

	// IMAP and CardDAV
	Provider string `json:"provider"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Folder   string `json:"folder"`

	// CardDAV endpoint for providers without a preset
	URL string `json:"url"`
}

type AuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type SyncResponse struct {
	TaskID   string `json:"task_id"`
	SourceID string `json:"source_id"`
}

// ImportResult summarizes one batch of contacts written from a source
type ImportResult struct {
	TaskID   string `json:"task_id"`
	Source   string `json:"source"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

type CSVPreviewResponse struct {
	*csvimport.Preview
}
