package repository

import (
	"contacthub-backend/internal/duplicate/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const insertBatchSize = 500

type cacheRepository struct {
	db *gorm.DB
}

// NewCacheRepository creates a new GORM-based CacheRepository
func NewCacheRepository(db *gorm.DB) CacheRepository {
	return &cacheRepository{db: db}
}

func (r *cacheRepository) Replace(entries []*domain.DuplicateCacheEntry) error {
	for i, entry := range entries {
		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		entry.Rank = i
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.DuplicateCacheEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, insertBatchSize).Error
	})
}

func (r *cacheRepository) List(minConfidence float64) ([]*domain.DuplicateCacheEntry, error) {
	var entries []*domain.DuplicateCacheEntry
	err := r.db.Where("confidence >= ?", minConfidence).Order("sort_order ASC").Find(&entries).Error
	return entries, err
}

func (r *cacheRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.DuplicateCacheEntry{}).Count(&count).Error
	return count, err
}
