package repository

import "contacthub-backend/internal/duplicate/domain"

// CacheRepository stores the precomputed duplicate pairs
type CacheRepository interface {
	// Replace swaps the whole cache for entries in one transaction.
	// Entries are ranked in the given order.
	Replace(entries []*domain.DuplicateCacheEntry) error
	// List returns entries with confidence >= minConfidence in rank order
	List(minConfidence float64) ([]*domain.DuplicateCacheEntry, error)
	// Count returns the number of cached pairs
	Count() (int64, error)
}
