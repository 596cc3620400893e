package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ContactSnapshot is the full persisted state of a contact at one point in time.
// Every column of Contact is listed here; undo restores exactly these values.
type ContactSnapshot struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Source    string
	SourceID  string
	Metadata  datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
}

// SnapshotOf captures the current state of c. Metadata bytes are copied.
func SnapshotOf(c *Contact) ContactSnapshot {
	return ContactSnapshot{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Source:    c.Source,
		SourceID:  c.SourceID,
		Metadata:  cloneJSON(c.Metadata),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Deleted:   c.Deleted,
	}
}

// Contact rebuilds a contact carrying exactly the snapshot values
func (s ContactSnapshot) Contact() *Contact {
	return &Contact{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Phone:     s.Phone,
		Source:    s.Source,
		SourceID:  s.SourceID,
		Metadata:  cloneJSON(s.Metadata),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Deleted:   s.Deleted,
	}
}

func cloneJSON(src datatypes.JSON) datatypes.JSON {
	if src == nil {
		return nil
	}
	dst := make(datatypes.JSON, len(src))
	copy(dst, src)
	return dst
}
