package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

var (
	// ErrContactNotFound is returned when a referenced contact id does not exist
	ErrContactNotFound = errors.New("contact not found")
	// ErrInvalidMetadata is returned when a connector produces metadata that is not a JSON object
	ErrInvalidMetadata = errors.New("contact metadata must be a JSON object")
)

// Contact represents one address-book entry gathered from some source system
type Contact struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email" gorm:"index"`
	Phone     string         `json:"phone"`
	Source    string         `json:"source" gorm:"index;not null"`
	SourceID  string         `json:"source_id"`
	Metadata  datatypes.JSON `json:"metadata" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime:false"`
	Deleted   bool           `json:"deleted" gorm:"index;not null"`
}

// TableName specifies the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// FullName joins the name parts that are present
func (c *Contact) FullName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.LastName
	}
}

// NewMetadata marshals a connector-specific payload into contact metadata.
// Only JSON objects are accepted; a nil payload becomes an empty object.
func NewMetadata(payload map[string]interface{}) (datatypes.JSON, error) {
	if payload == nil {
		return datatypes.JSON("{}"), nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return datatypes.JSON(raw), nil
}

// ValidateMetadata checks metadata at the connector boundary.
// Empty metadata is valid and is stored as an empty object.
func ValidateMetadata(metadata datatypes.JSON) error {
	if len(metadata) == 0 {
		return nil
	}
	var object map[string]json.RawMessage
	if err := json.Unmarshal(metadata, &object); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return nil
}

// ContactSource is implemented by connectors that produce contact records
// (Gmail, IMAP, CSV). FetchContacts may perform network I/O.
type ContactSource interface {
	Name() string
	FetchContacts(ctx context.Context) ([]*Contact, error)
}
