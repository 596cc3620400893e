package repository

import (
	"time"

	"contacthub-backend/internal/status/domain"
)

// StatusRepository persists the handshake marker and the cache readiness record
type StatusRepository interface {
	// SignalReady marks the interactive process as up
	SignalReady(pid int) error
	// ClearReady removes the interactive marker
	ClearReady() error
	// IsInteractiveReady reports whether the interactive marker is present
	IsInteractiveReady() (bool, error)
	// MarkCacheRefreshed records a successful cache generation
	MarkCacheRefreshed(at time.Time) error
	// GetCacheStatus never returns nil; a missing row yields an empty status
	GetCacheStatus() (*domain.CacheStatus, error)
}
