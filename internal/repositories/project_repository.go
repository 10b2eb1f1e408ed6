package repositories

import (
	"context"
	"fmt"

	"taskflow/internal/apperrors"
	"taskflow/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ProjectRepository scopes every lookup to the owning user.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	project.CreatedAt = project.CreatedAt.UTC()
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) FindOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&project).Error
	if err != nil {
		return nil, notFound("find project", err)
	}
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

// DeleteOwned removes the project and its tasks in one transaction.
func (r *projectRepository) DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&project).Error; err != nil {
			return notFound("delete project", err)
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete project tasks: %w", err)
		}

		result := tx.Delete(&project)
		if result.Error != nil {
			return fmt.Errorf("delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("delete project: %w", apperrors.ErrNotFound)
		}
		return nil
	})
}
