package domain

import "time"

// Well-known rows of the process_status table
const (
	// InteractiveProcess is the handshake row owned by the interactive server
	InteractiveProcess = "interactive"
	// DuplicateCache is the readiness row owned by the refresh worker
	DuplicateCache = "duplicate_cache"
)

// Status values stored in ProcessStatus.Status
const (
	StatusReady   = "ready"
	StatusSuccess = "success"
)

// ProcessStatus is one named coordination record shared by the two processes
type ProcessStatus struct {
	Name       string    `json:"name" gorm:"primaryKey"`
	Status     string    `json:"status" gorm:"not null"`
	LastUpdate time.Time `json:"last_update"`
	PID        int       `json:"pid" gorm:"column:pid"`
}

// TableName specifies the table name for GORM
func (ProcessStatus) TableName() string {
	return "process_status"
}

// CacheStatus is the readiness view of the duplicate cache
type CacheStatus struct {
	Status     string     `json:"status,omitempty"`
	LastUpdate *time.Time `json:"last_updated"`
}

// Ready reports whether the cache holds an authoritative generation.
// Anything other than an explicit success counts as not ready.
func (s *CacheStatus) Ready() bool {
	return s != nil && s.Status == StatusSuccess
}
