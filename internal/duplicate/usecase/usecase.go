package usecase

import (
	"errors"
	"time"

	"contacthub-backend/internal/duplicate/domain"
)

// ErrCacheNotReady is returned while no successful cache generation has been recorded
var ErrCacheNotReady = errors.New("duplicate cache not ready")

// DuplicateUsecase serves the precomputed duplicate pairs
type DuplicateUsecase interface {
	// GetDuplicates returns cached pairs with confidence >= minConfidence.
	// Pairs whose contacts were deleted since the last refresh are skipped.
	GetDuplicates(minConfidence float64) ([]*domain.DuplicateMatch, error)
	// GetCacheStatus reports readiness and the time of the last refresh
	GetCacheStatus() (*CacheStatus, error)
}

// CacheStatus is the readiness view served to clients
type CacheStatus struct {
	Ready       bool       `json:"ready"`
	LastUpdated *time.Time `json:"last_updated"`
	Pairs       int64      `json:"pairs"`
}
