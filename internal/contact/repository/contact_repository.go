package repository

import (
	"errors"
	"strings"
	"time"

	"contacthub-backend/internal/contact/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// contactRepository implements ContactRepository using GORM
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new GORM-based ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) FindByID(id string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.Where("id = ?", id).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) List() ([]*domain.Contact, error) {
	var contacts []*domain.Contact
	err := r.db.Where("deleted = ?", false).Order("id ASC").Find(&contacts).Error
	return contacts, err
}

func (r *contactRepository) Search(query string, limit int) ([]*domain.Contact, error) {
	var contacts []*domain.Contact
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	tx := r.db.Where("deleted = ?", false).
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern).
		Order("id ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Find(&contacts).Error
	return contacts, err
}

func (r *contactRepository) Create(contact *domain.Contact) error {
	now := time.Now()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	if contact.UpdatedAt.IsZero() {
		contact.UpdatedAt = now
	}
	contact.Metadata = normalizeMetadata(contact.Metadata)
	return r.db.Create(contact).Error
}

func (r *contactRepository) Update(contact *domain.Contact) error {
	contact.UpdatedAt = time.Now()
	contact.Metadata = normalizeMetadata(contact.Metadata)
	return r.db.Save(contact).Error
}

// Upsert follows the sync rule of the connectors: an existing row keeps its
// created_at and deleted flag, everything the source owns is overwritten.
func (r *contactRepository) Upsert(contact *domain.Contact) error {
	existing, err := r.FindByID(contact.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.Create(contact)
	}

	existing.FirstName = contact.FirstName
	existing.LastName = contact.LastName
	existing.Email = contact.Email
	existing.Phone = contact.Phone
	existing.Source = contact.Source
	existing.SourceID = contact.SourceID
	existing.Metadata = contact.Metadata
	if err := r.Update(existing); err != nil {
		return err
	}
	*contact = *existing
	return nil
}

func (r *contactRepository) Restore(contact *domain.Contact) error {
	contact.Metadata = normalizeMetadata(contact.Metadata)
	return r.db.Save(contact).Error
}

func (r *contactRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Contact{}).Error
}

func (r *contactRepository) SoftDelete(id string) error {
	result := r.db.Model(&domain.Contact{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted":    true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *contactRepository) Transaction(fn func(repo ContactRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&contactRepository{db: tx})
	})
}

func normalizeMetadata(metadata datatypes.JSON) datatypes.JSON {
	if len(metadata) == 0 {
		return datatypes.JSON("{}")
	}
	return metadata
}
