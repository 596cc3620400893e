package repository

import "contacthub-backend/internal/source/domain"

// SourceRepository persists configured source connections
type SourceRepository interface {
	// FindByID returns (nil, nil) when no row has the id
	FindByID(id string) (*domain.SourceConfig, error)
	List() ([]*domain.SourceConfig, error)
	Create(source *domain.SourceConfig) error
	Update(source *domain.SourceConfig) error
	Delete(id string) error
}
