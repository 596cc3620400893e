package repository

import (
	"errors"
	"time"

	"contacthub-backend/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	if task.StartedAt.IsZero() {
		task.StartedAt = now
	}
	task.CreatedAt = now
	task.UpdatedAt = now
	return r.db.Create(task).Error
}

func (r *gormTaskRepository) FindByID(id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *gormTaskRepository) FindRecent(status *domain.TaskStatus, limit, offset int) ([]*domain.Task, int64, error) {
	var tasks []*domain.Task
	var total int64

	query := r.db.Model(&domain.Task{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("started_at DESC, id ASC").Limit(limit).Offset(offset).Find(&tasks).Error
	return tasks, total, err
}

func (r *gormTaskRepository) Update(task *domain.Task) error {
	task.UpdatedAt = time.Now()
	return r.db.Save(task).Error
}

func (r *gormTaskRepository) Delete(id string) error {
	return r.db.Delete(&domain.Task{}, "id = ?", id).Error
}

func (r *gormTaskRepository) FindStale(startedBefore time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Where("status = ? AND started_at < ?", domain.TaskStatusRunning, startedBefore).
		Order("started_at ASC").Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) DeleteFinishedBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("status <> ? AND finished_at IS NOT NULL AND finished_at < ?", domain.TaskStatusRunning, cutoff).
		Delete(&domain.Task{})
	return result.RowsAffected, result.Error
}
