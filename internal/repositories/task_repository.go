package repositories

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/apperrors"
	"taskflow/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// TaskFilter narrows an owner-scoped task listing. Zero values are ignored.
// Time bounds are half-open: [From, Before).
type TaskFilter struct {
	ProjectID   *uuid.UUID
	Status      models.TaskStatus
	Priority    models.Priority
	TaskType    models.TaskType
	Platform    string
	DueFrom     *time.Time
	DueBefore   *time.Time
	UpdatedFrom *time.Time
	WithProject bool
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	Save(ctx context.Context, task *models.Task) error
	FindOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error)
	DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]models.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Times are written in UTC so that range filters compare consistently on
// every backend, including sqlite's text timestamps.
func toUTC(task *models.Task) {
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		task.DueDate = &due
	}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	toUTC(task)
	return r.db.WithContext(ctx).Omit("Project").Create(task).Error
}

func (r *taskRepository) Save(ctx context.Context, task *models.Task) error {
	toUTC(task)
	return r.db.WithContext(ctx).Omit("Project").Save(task).Error
}

func (r *taskRepository) owned(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	owned := r.db.Model(&models.Project{}).Select("id").Where("owner_id = ?", ownerID)
	return r.db.WithContext(ctx).Where("project_id IN (?)", owned)
}

func (r *taskRepository) FindOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.owned(ctx, ownerID).Preload("Project").Where("id = ?", id).First(&task).Error; err != nil {
		return nil, notFound("find task", err)
	}
	return &task, nil
}

func (r *taskRepository) DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.owned(ctx, ownerID).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete task: %w", apperrors.ErrNotFound)
	}
	return nil
}

// List returns the owner's tasks matching filter, newest first.
func (r *taskRepository) List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	q := r.owned(ctx, ownerID)

	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.TaskType != "" {
		q = q.Where("task_type = ?", filter.TaskType)
	}
	if filter.Platform != "" {
		q = q.Where("platform = ?", filter.Platform)
	}
	if filter.DueFrom != nil {
		q = q.Where("due_date >= ?", filter.DueFrom.UTC())
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date < ?", filter.DueBefore.UTC())
	}
	if filter.UpdatedFrom != nil {
		q = q.Where("updated_at >= ?", filter.UpdatedFrom.UTC())
	}
	if filter.WithProject {
		q = q.Preload("Project")
	}

	var tasks []models.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
