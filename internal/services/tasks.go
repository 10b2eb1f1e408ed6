package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/apperrors"
	"taskflow/internal/clock"
	"taskflow/internal/models"
	"taskflow/internal/repositories"

	"github.com/gofrs/uuid"
)

// TaskInput carries raw form values. Empty strings mean "not provided".
type TaskInput struct {
	ProjectID    string `form:"project_id"`
	Title        string `form:"title"`
	Description  string `form:"description"`
	Status       string `form:"status"`
	Priority     string `form:"priority"`
	TaskType     string `form:"task_type"`
	Platform     string `form:"platform"`
	CreatorStage string `form:"creator_stage"`
	DueDate      string `form:"due_date"`
}

// Warnings lists input that was ignored while the rest of the request
// went through.
type Warnings []error

type TaskService interface {
	Add(ctx context.Context, ownerID, projectID uuid.UUID, in TaskInput) (*models.Task, Warnings, error)
	CreateContent(ctx context.Context, user *models.User, in TaskInput) (*models.Task, Warnings, error)
	Edit(ctx context.Context, ownerID, taskID uuid.UUID, in TaskInput) (*models.Task, Warnings, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error)
	SetStatus(ctx context.Context, ownerID, taskID uuid.UUID, value string) (*models.Task, error)
	SetCreatorStage(ctx context.Context, ownerID, taskID uuid.UUID, value string) (*models.Task, error)
	MoveDate(ctx context.Context, ownerID, taskID uuid.UUID, value string) (*models.Task, error)
}

type TaskServiceImpl struct {
	tasks       repositories.TaskRepository
	projects    repositories.ProjectRepository
	clock       clock.Clock
	invalidator Invalidator
}

func NewTaskService(tasks repositories.TaskRepository, projects repositories.ProjectRepository, clk clock.Clock, invalidator Invalidator) *TaskServiceImpl {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &TaskServiceImpl{tasks: tasks, projects: projects, clock: clk, invalidator: invalidator}
}

func (s *TaskServiceImpl) Add(ctx context.Context, ownerID, projectID uuid.UUID, in TaskInput) (*models.Task, Warnings, error) {
	if _, err := s.projects.FindOwned(ctx, ownerID, projectID); err != nil {
		return nil, nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, apperrors.ErrMissingTitle
	}

	now := s.clock.Now()
	task := &models.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var warnings Warnings
	warnings = s.apply(task, in, warnings, now.Location(), true)

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, nil, fmt.Errorf("create task: %w", err)
	}
	s.invalidator.InvalidateUser(ctx, ownerID)
	return task, warnings, nil
}

// CreateContent adds a content task for a creator account. The stage
// defaults to idea.
func (s *TaskServiceImpl) CreateContent(ctx context.Context, user *models.User, in TaskInput) (*models.Task, Warnings, error) {
	if !user.IsCreator() {
		return nil, nil, apperrors.ErrCreatorOnly
	}

	projectID, err := uuid.FromString(strings.TrimSpace(in.ProjectID))
	if err != nil {
		return nil, nil, fmt.Errorf("content project: %w", apperrors.ErrNotFound)
	}

	in.TaskType = string(models.TaskContent)
	if strings.TrimSpace(in.CreatorStage) == "" {
		in.CreatorStage = string(models.StageIdea)
	}
	return s.Add(ctx, user.ID, projectID, in)
}

func (s *TaskServiceImpl) Edit(ctx context.Context, ownerID, taskID uuid.UUID, in TaskInput) (*models.Task, Warnings, error) {
	task, err := s.tasks.FindOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, apperrors.ErrMissingTitle
	}

	now := s.clock.Now()
	task.Title = title
	task.Description = strings.TrimSpace(in.Description)

	var warnings Warnings
	warnings = s.apply(task, in, warnings, now.Location(), false)
	task.UpdatedAt = now

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, nil, fmt.Errorf("save task: %w", err)
	}
	s.invalidator.InvalidateUser(ctx, ownerID)
	return task, warnings, nil
}

// apply copies the optional enum and date fields onto task. Bad values are
// reported as warnings and leave the current value in place. On create an
// empty due date means none; on edit it clears the date. The platform is
// always taken from the input.
func (s *TaskServiceImpl) apply(task *models.Task, in TaskInput, warnings Warnings, loc *time.Location, creating bool) Warnings {
	if v := strings.TrimSpace(in.Status); v != "" {
		if status, ok := models.ParseTaskStatus(v); ok {
			task.Status = status
		} else {
			warnings = append(warnings, apperrors.ErrInvalidStatus)
		}
	}

	if v := strings.TrimSpace(in.Priority); v != "" {
		if priority, ok := models.ParsePriority(v); ok {
			task.Priority = priority
		} else {
			warnings = append(warnings, apperrors.ErrInvalidPriority)
		}
	}

	kind := task.TaskType
	if kind == "" {
		kind = models.TaskGeneral
	}
	if v := strings.TrimSpace(in.TaskType); v != "" {
		if parsed, ok := models.ParseTaskType(v); ok {
			kind = parsed
		} else {
			warnings = append(warnings, apperrors.ErrInvalidTaskType)
		}
	}

	stage := task.CreatorStage
	if v := strings.TrimSpace(in.CreatorStage); v != "" {
		if parsed, ok := models.ParseCreatorStage(v); ok {
			stage = parsed
		} else if kind == models.TaskContent {
			warnings = append(warnings, apperrors.ErrInvalidStage)
		}
	}

	// The forms always post the platform field, so an empty value clears it.
	SetTaskType(task, kind, strings.TrimSpace(in.Platform), stage)

	v := strings.TrimSpace(in.DueDate)
	switch {
	case v == "":
		if !creating {
			task.DueDate = nil
		}
	default:
		due, err := clock.ParseDate(v, loc)
		if err != nil {
			warnings = append(warnings, apperrors.ErrInvalidDate)
			break
		}
		task.DueDate = &due
	}

	return warnings
}

func (s *TaskServiceImpl) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	return s.tasks.FindOwned(ctx, ownerID, taskID)
}

// Delete removes the task and returns it so callers can redirect to its
// project.
func (s *TaskServiceImpl) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.FindOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.DeleteOwned(ctx, ownerID, taskID); err != nil {
		return nil, err
	}
	s.invalidator.InvalidateUser(ctx, ownerID)
	return task, nil
}

func (s *TaskServiceImpl) SetStatus(ctx context.Context, ownerID, taskID uuid.UUID, value string) (*models.Task, error) {
	return s.mutate(ctx, ownerID, taskID, func(task *models.Task, now time.Time) error {
		return SetStatus(task, value, now)
	})
}

func (s *TaskServiceImpl) SetCreatorStage(ctx context.Context, ownerID, taskID uuid.UUID, value string) (*models.Task, error) {
	return s.mutate(ctx, ownerID, taskID, func(task *models.Task, now time.Time) error {
		return SetCreatorStage(task, value, now)
	})
}

// MoveDate reschedules a task. Ownership is checked before the value.
func (s *TaskServiceImpl) MoveDate(ctx context.Context, ownerID, taskID uuid.UUID, value string) (*models.Task, error) {
	return s.mutate(ctx, ownerID, taskID, func(task *models.Task, now time.Time) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return apperrors.ErrMissingDate
		}
		due, err := clock.ParseDate(value, now.Location())
		if err != nil {
			return apperrors.ErrInvalidDate
		}
		task.DueDate = &due
		task.UpdatedAt = now
		return nil
	})
}

func (s *TaskServiceImpl) mutate(ctx context.Context, ownerID, taskID uuid.UUID, fn func(*models.Task, time.Time) error) (*models.Task, error) {
	task, err := s.tasks.FindOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if err := fn(task, s.clock.Now()); err != nil {
		return task, err
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	s.invalidator.InvalidateUser(ctx, ownerID)
	return task, nil
}
