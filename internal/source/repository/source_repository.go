package repository

import (
	"errors"
	"time"

	"contacthub-backend/internal/source/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sourceRepository struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) FindByID(id string) (*domain.SourceConfig, error) {
	var source domain.SourceConfig
	err := r.db.Where("id = ?", id).First(&source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &source, nil
}

func (r *sourceRepository) List() ([]*domain.SourceConfig, error) {
	var sources []*domain.SourceConfig
	err := r.db.Order("created_at ASC").Find(&sources).Error
	return sources, err
}

func (r *sourceRepository) Create(source *domain.SourceConfig) error {
	if source.ID == "" {
		source.ID = uuid.New().String()
	}
	if len(source.Config) == 0 {
		source.Config = []byte("{}")
	}
	now := time.Now()
	source.CreatedAt = now
	source.UpdatedAt = now
	return r.db.Create(source).Error
}

func (r *sourceRepository) Update(source *domain.SourceConfig) error {
	source.UpdatedAt = time.Now()
	return r.db.Save(source).Error
}

func (r *sourceRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&domain.SourceConfig{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSourceNotFound
	}
	return nil
}
