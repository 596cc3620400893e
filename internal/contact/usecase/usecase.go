package usecase

import (
	"contacthub-backend/internal/contact/domain"
	"contacthub-backend/internal/contact/dto"
)

// ContactUsecase defines the interface for contact business logic
type ContactUsecase interface {
	// ListContacts returns live contacts; a non-empty query runs a fuzzy search
	ListContacts(query string, limit int) ([]*domain.Contact, error)
	GetContact(id string) (*domain.Contact, error)
	// CreateContact adds a manual contact
	CreateContact(req *dto.CreateContactRequest) (*domain.Contact, error)
	// UpdateContact edits fields through an undoable command
	UpdateContact(id string, fields map[string]string) (*domain.Contact, error)
	// DeleteContact soft-deletes a contact
	DeleteContact(id string) error
	// MergeContacts merges source into target through an undoable command
	MergeContacts(req *dto.MergeRequest) (*domain.Contact, error)

	Undo() (*dto.HistoryActionResponse, error)
	Redo() (*dto.HistoryActionResponse, error)
	History() *dto.HistoryResponse
}
