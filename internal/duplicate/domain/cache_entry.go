package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	contactdomain "contacthub-backend/internal/contact/domain"
)

// StringArray is a custom type to handle JSON array in GORM
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*a = []string{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// DuplicateCacheEntry is one scored pair of one cache generation.
// Only the refresh worker writes this table.
type DuplicateCacheEntry struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	Contact1ID  string      `json:"contact1_id" gorm:"column:contact1_id;index;not null"`
	Contact2ID  string      `json:"contact2_id" gorm:"column:contact2_id;index;not null"`
	Confidence  float64     `json:"confidence" gorm:"index;not null"`
	Reasons     StringArray `json:"reasons" gorm:"type:text"`
	Rank        int         `json:"-" gorm:"column:sort_order;index;not null"` // position within its generation
	LastUpdated time.Time   `json:"last_updated"`
}

// TableName specifies the table name for GORM
func (DuplicateCacheEntry) TableName() string {
	return "duplicate_cache"
}

// Pair is a scorer result for two distinct contacts
type Pair struct {
	Contact1ID string
	Contact2ID string
	Confidence float64
	Reasons    []string
}

// DuplicateMatch is a cache entry resolved against the live contacts table
type DuplicateMatch struct {
	Contact1   *contactdomain.Contact `json:"contact1"`
	Contact2   *contactdomain.Contact `json:"contact2"`
	Confidence float64                `json:"confidence"`
	Reasons    []string               `json:"reasons"`
}
