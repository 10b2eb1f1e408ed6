package services

import (
	"context"
	"fmt"
	"strings"

	"taskflow/internal/apperrors"
	"taskflow/internal/clock"
	"taskflow/internal/models"
	"taskflow/internal/repositories"

	"github.com/gofrs/uuid"
)

// Invalidator drops anything memoized for a user after their data changes.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID uuid.UUID)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateUser(context.Context, uuid.UUID) {}

type ProjectService interface {
	Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*models.Project, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type ProjectServiceImpl struct {
	projects    repositories.ProjectRepository
	clock       clock.Clock
	invalidator Invalidator
}

func NewProjectService(projects repositories.ProjectRepository, clk clock.Clock, invalidator Invalidator) *ProjectServiceImpl {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &ProjectServiceImpl{projects: projects, clock: clk, invalidator: invalidator}
}

func (s *ProjectServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrMissingName
	}

	project := &models.Project{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.clock.Now(),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (s *ProjectServiceImpl) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Project, error) {
	return s.projects.FindOwned(ctx, ownerID, id)
}

func (s *ProjectServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	return s.projects.ListByOwner(ctx, ownerID)
}

func (s *ProjectServiceImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.projects.DeleteOwned(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidator.InvalidateUser(ctx, ownerID)
	return nil
}
