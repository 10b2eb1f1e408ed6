package services

import (
	"testing"
	"time"

	"taskflow/internal/apperrors"
	"taskflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lifecycleStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func contentTask(stage models.CreatorStage) *models.Task {
	return &models.Task{
		Title:        "video",
		Status:       models.StatusTodo,
		Priority:     models.PriorityMedium,
		TaskType:     models.TaskContent,
		Platform:     "tiktok",
		CreatorStage: stage,
		UpdatedAt:    lifecycleStart,
	}
}

func TestSetTaskTypeClearsCreatorFields(t *testing.T) {
	task := contentTask(models.StageToEdit)

	SetTaskType(task, models.TaskGeneral, "youtube", models.StageIdea)
	assert.Equal(t, models.TaskGeneral, task.TaskType)
	assert.Empty(t, task.Platform)
	assert.Equal(t, models.StageNone, task.CreatorStage)

	SetTaskType(task, models.TaskContent, "youtube", models.CreatorStage("bogus"))
	assert.Equal(t, "youtube", task.Platform)
	assert.Equal(t, models.StageNone, task.CreatorStage, "unknown stages are never stored")
}

func TestSetStatusAnyToAny(t *testing.T) {
	now := lifecycleStart.Add(time.Hour)
	for _, from := range models.Statuses {
		for _, to := range models.Statuses {
			task := contentTask(models.StageIdea)
			task.Status = from

			require.NoError(t, SetStatus(task, string(to), now))
			assert.Equal(t, to, task.Status)
			assert.Equal(t, now, task.UpdatedAt)
		}
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	task := contentTask(models.StageIdea)
	before := *task

	err := SetStatus(task, "archived", lifecycleStart.Add(time.Hour))
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	assert.Equal(t, before, *task)
}

func TestSetCreatorStage(t *testing.T) {
	now := lifecycleStart.Add(time.Hour)

	tests := []struct {
		name    string
		task    *models.Task
		value   string
		want    models.CreatorStage
		wantErr error
	}{
		{"forward", contentTask(models.StageIdea), "to_film", models.StageToFilm, nil},
		{"backward", contentTask(models.StagePublished), "idea", models.StageIdea, nil},
		{"none clears", contentTask(models.StageScheduled), "none", models.StageNone, nil},
		{"unknown value", contentTask(models.StageIdea), "viral", models.StageIdea, apperrors.ErrInvalidStage},
		{"general task", &models.Task{TaskType: models.TaskGeneral, UpdatedAt: lifecycleStart}, "idea", models.StageNone, apperrors.ErrWrongTaskKind},
		{"unknown value on general task", &models.Task{TaskType: models.TaskGeneral, UpdatedAt: lifecycleStart}, "viral", models.StageNone, apperrors.ErrInvalidStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetCreatorStage(tt.task, tt.value, now)
			assert.Equal(t, tt.want, tt.task.CreatorStage)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, lifecycleStart, tt.task.UpdatedAt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, now, tt.task.UpdatedAt)
		})
	}
}

func TestContentTemplates(t *testing.T) {
	all := ContentTemplates()
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	tpl, ok := ContentTemplateByID("tiktok_tip")
	require.True(t, ok)
	assert.Equal(t, models.StageIdea, tpl.DefaultCreatorStage)

	all[0].DefaultTitle = "changed"
	again := ContentTemplates()
	assert.NotEqual(t, "changed", again[0].DefaultTitle)

	_, ok = ContentTemplateByID("missing")
	assert.False(t, ok)
}
