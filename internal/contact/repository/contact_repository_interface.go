package repository

import "contacthub-backend/internal/contact/domain"

// ContactRepository is the single writer of contact rows
type ContactRepository interface {
	// FindByID returns (nil, nil) when no row has the id. Soft-deleted rows are returned.
	FindByID(id string) (*domain.Contact, error)
	// List returns every non-deleted contact ordered by id
	List() ([]*domain.Contact, error)
	// Search does a case-insensitive substring match over names and email
	Search(query string, limit int) ([]*domain.Contact, error)
	// Create inserts a new contact, filling timestamps when unset
	Create(contact *domain.Contact) error
	// Update saves every column and bumps updated_at
	Update(contact *domain.Contact) error
	// Upsert inserts the contact or refreshes the source-owned fields of an existing row
	Upsert(contact *domain.Contact) error
	// Restore writes the contact exactly as given, inserting it if missing.
	// Timestamps are not touched.
	Restore(contact *domain.Contact) error
	// Delete removes the row permanently
	Delete(id string) error
	// SoftDelete sets the deleted flag
	SoftDelete(id string) error
	// Transaction runs fn against a repository bound to one database transaction
	Transaction(fn func(repo ContactRepository) error) error
}
