package services

import (
	"time"

	"taskflow/internal/apperrors"
	"taskflow/internal/models"
)

// SetTaskType changes the task kind. Platform and stage are only kept for
// content tasks.
func SetTaskType(task *models.Task, kind models.TaskType, platform string, stage models.CreatorStage) {
	task.TaskType = kind
	if kind != models.TaskContent {
		task.Platform = ""
		task.CreatorStage = models.StageNone
		return
	}
	task.Platform = platform
	task.CreatorStage = stage.Normalize()
}

// SetStatus moves the task to any of the three statuses. The task is left
// untouched on error.
func SetStatus(task *models.Task, value string, now time.Time) error {
	status, ok := models.ParseTaskStatus(value)
	if !ok {
		return apperrors.ErrInvalidStatus
	}
	task.Status = status
	task.UpdatedAt = now
	return nil
}

// SetCreatorStage moves a content task to a stage, or clears it with
// "none". The task is left untouched on error.
func SetCreatorStage(task *models.Task, value string, now time.Time) error {
	stage, ok := models.ParseCreatorStage(value)
	if !ok {
		return apperrors.ErrInvalidStage
	}
	if !task.IsContent() {
		return apperrors.ErrWrongTaskKind
	}
	task.CreatorStage = stage
	task.UpdatedAt = now
	return nil
}
