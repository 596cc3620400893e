package repository

import (
	"errors"
	"time"

	"contacthub-backend/internal/status/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type statusRepository struct {
	db *gorm.DB
}

// NewStatusRepository creates a new GORM-based StatusRepository
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) SignalReady(pid int) error {
	return r.put(&domain.ProcessStatus{
		Name:       domain.InteractiveProcess,
		Status:     domain.StatusReady,
		LastUpdate: time.Now(),
		PID:        pid,
	})
}

func (r *statusRepository) ClearReady() error {
	return r.db.Where("name = ?", domain.InteractiveProcess).Delete(&domain.ProcessStatus{}).Error
}

func (r *statusRepository) IsInteractiveReady() (bool, error) {
	row, err := r.find(domain.InteractiveProcess)
	if err != nil || row == nil {
		return false, err
	}
	return row.Status == domain.StatusReady, nil
}

func (r *statusRepository) MarkCacheRefreshed(at time.Time) error {
	return r.put(&domain.ProcessStatus{
		Name:       domain.DuplicateCache,
		Status:     domain.StatusSuccess,
		LastUpdate: at,
	})
}

func (r *statusRepository) GetCacheStatus() (*domain.CacheStatus, error) {
	row, err := r.find(domain.DuplicateCache)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &domain.CacheStatus{}, nil
	}
	lastUpdate := row.LastUpdate
	return &domain.CacheStatus{Status: row.Status, LastUpdate: &lastUpdate}, nil
}

func (r *statusRepository) find(name string) (*domain.ProcessStatus, error) {
	var row domain.ProcessStatus
	err := r.db.Where("name = ?", name).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *statusRepository) put(row *domain.ProcessStatus) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "last_update", "pid"}),
	}).Create(row).Error
}
