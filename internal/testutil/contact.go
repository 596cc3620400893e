package testutil

import (
	"testing"
	"time"

	"contacthub-backend/internal/contact/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NewContact builds a contact with fixed timestamps and a small metadata object
func NewContact(id, first, last, email, phone string) *domain.Contact {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return &domain.Contact{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
		Source:    "test",
		SourceID:  id,
		Metadata:  datatypes.JSON(`{"origin":"fixture","tags":["a","b"]}`),
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}
}

// SeedContacts inserts the contacts as-is
func SeedContacts(t *testing.T, db *gorm.DB, contacts ...*domain.Contact) {
	t.Helper()
	for _, c := range contacts {
		require.NoError(t, db.Create(c).Error)
	}
}

// AssertSameContact compares every column, timestamps by instant
func AssertSameContact(t *testing.T, want, got *domain.Contact) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.FirstName, got.FirstName)
	assert.Equal(t, want.LastName, got.LastName)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.Phone, got.Phone)
	assert.Equal(t, want.Source, got.Source)
	assert.Equal(t, want.SourceID, got.SourceID)
	assert.JSONEq(t, string(want.Metadata), string(got.Metadata))
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at: want %s got %s", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated_at: want %s got %s", want.UpdatedAt, got.UpdatedAt)
	assert.Equal(t, want.Deleted, got.Deleted)
}
