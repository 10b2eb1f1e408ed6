package services

import (
	"testing"
	"time"

	"taskflow/internal/clock"
	"taskflow/internal/models"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var viewNow = time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

type taskOpt func(*models.Task)

func due(t time.Time) taskOpt {
	return func(task *models.Task) {
		d := clock.StartOfDay(t)
		task.DueDate = &d
	}
}

func status(s models.TaskStatus) taskOpt {
	return func(task *models.Task) { task.Status = s }
}

func priority(p models.Priority) taskOpt {
	return func(task *models.Task) { task.Priority = p }
}

func stage(s models.CreatorStage) taskOpt {
	return func(task *models.Task) {
		task.TaskType = models.TaskContent
		task.CreatorStage = s
	}
}

func created(at time.Time) taskOpt {
	return func(task *models.Task) { task.CreatedAt = at }
}

func updated(at time.Time) taskOpt {
	return func(task *models.Task) { task.UpdatedAt = at }
}

func mkTask(title string, opts ...taskOpt) models.Task {
	task := models.Task{
		ID:        uuid.Must(uuid.NewV4()),
		Title:     title,
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		TaskType:  models.TaskGeneral,
		CreatedAt: viewNow.Add(-24 * time.Hour),
		UpdatedAt: viewNow.Add(-24 * time.Hour),
	}
	for _, opt := range opts {
		opt(&task)
	}
	return task
}

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestBuildDashboard(t *testing.T) {
	monday := clock.WeekStart(viewNow)
	tasks := []models.Task{
		mkTask("general open"),
		mkTask("content today", stage(models.StageToFilm), due(viewNow)),
		mkTask("content edit", stage(models.StageToEdit)),
		mkTask("content scheduled", stage(models.StageScheduled), due(viewNow.AddDate(0, 0, 2))),
		mkTask("done monday", status(models.StatusDone), updated(monday.Add(time.Hour))),
		mkTask("done start of month", status(models.StatusDone), updated(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))),
		mkTask("done last month", status(models.StatusDone), updated(time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC))),
		mkTask("done content today", stage(models.StageToFilm), status(models.StatusDone), due(viewNow), updated(viewNow)),
	}

	view := BuildDashboard([]models.Project{{Name: "a"}, {Name: "b"}}, tasks, viewNow)

	assert.Equal(t, 2, view.ProjectCount)
	assert.Equal(t, 4, view.OpenTotal)
	assert.Equal(t, 1, view.OpenGeneral)
	assert.Equal(t, 3, view.OpenContent)
	assert.Equal(t, 1, view.ContentDueToday)
	assert.Equal(t, 1, view.ToFilm)
	assert.Equal(t, 1, view.ToEdit)
	assert.Equal(t, 1, view.Scheduled)
	assert.Equal(t, 2, view.DoneThisWeek)
	assert.Equal(t, 3, view.DoneThisMonth)
}

func TestBuildToday(t *testing.T) {
	tasks := []models.Task{
		mkTask("low today", priority(models.PriorityLow), due(viewNow)),
		mkTask("high today", priority(models.PriorityHigh), due(viewNow)),
		mkTask("medium today old", due(viewNow), created(viewNow.Add(-48*time.Hour))),
		mkTask("medium today new", due(viewNow), created(viewNow.Add(-time.Hour))),
		mkTask("done today", status(models.StatusDone), due(viewNow)),
		mkTask("tomorrow", due(viewNow.AddDate(0, 0, 1))),
		mkTask("content today", stage(models.StageToEdit), due(viewNow)),
		mkTask("content odd stage", stage(models.CreatorStage("legacy")), due(viewNow)),
		mkTask("busy general", status(models.StatusInProgress)),
		mkTask("busy content", stage(models.StageIdea), status(models.StatusInProgress), due(viewNow.AddDate(0, 0, 5))),
	}

	view := BuildToday(tasks, viewNow)

	assert.Equal(t, []string{"high today", "medium today new", "medium today old", "low today"}, titles(view.General))
	assert.Equal(t, 6, view.Total)
	assert.Equal(t, 4, view.TotalGeneral)
	assert.Equal(t, 2, view.TotalContent)
	assert.Equal(t, []string{"busy general"}, titles(view.GeneralInProgress))
	assert.Equal(t, []string{"busy content"}, titles(view.ContentInProgress))

	require.Len(t, view.ContentByStage, 6)
	buckets := map[string][]string{}
	for _, col := range view.ContentByStage {
		buckets[col.Key] = titles(col.Tasks)
	}
	assert.Equal(t, []string{"content today"}, buckets["to_edit"])
	assert.Equal(t, []string{"content odd stage"}, buckets["none"])
	assert.Equal(t, "none", view.ContentByStage[5].Key)
}

func TestBuildTodayUsesClockLocation(t *testing.T) {
	paris := time.FixedZone("CEST", 2*3600)
	now := time.Date(2024, 5, 15, 0, 30, 0, 0, paris)
	local := time.Date(2024, 5, 15, 0, 0, 0, 0, paris)
	stored := local.UTC()

	task := mkTask("early", func(task *models.Task) { task.DueDate = &stored })
	view := BuildToday([]models.Task{task}, now)
	assert.Equal(t, 1, view.Total)
}

func TestPickFocusPrefersToday(t *testing.T) {
	contents := []models.Task{
		mkTask("idea today", stage(models.StageIdea), due(viewNow), priority(models.PriorityHigh)),
		mkTask("film today medium", stage(models.StageToFilm), due(viewNow)),
		mkTask("edit today high", stage(models.StageToEdit), due(viewNow), priority(models.PriorityHigh)),
		mkTask("edit yesterday high", stage(models.StageToEdit), due(viewNow.AddDate(0, 0, -1)), priority(models.PriorityHigh)),
		mkTask("done film today", stage(models.StageToFilm), due(viewNow), priority(models.PriorityHigh), status(models.StatusDone)),
	}

	focus := PickFocus(contents, viewNow)
	require.NotNil(t, focus)
	assert.Equal(t, "edit today high", focus.Title)
}

func TestPickFocusFallback(t *testing.T) {
	contents := []models.Task{
		mkTask("undated high", stage(models.StageToFilm), priority(models.PriorityHigh)),
		mkTask("next week", stage(models.StageToEdit), due(viewNow.AddDate(0, 0, 7))),
		mkTask("in two days low", stage(models.StageToFilm), due(viewNow.AddDate(0, 0, 2)), priority(models.PriorityLow)),
		mkTask("in two days high", stage(models.StageToEdit), due(viewNow.AddDate(0, 0, 2)), priority(models.PriorityHigh)),
	}

	focus := PickFocus(contents, viewNow)
	require.NotNil(t, focus)
	assert.Equal(t, "in two days high", focus.Title)

	undated := []models.Task{
		mkTask("newer", stage(models.StageToFilm), created(viewNow.Add(-time.Hour))),
		mkTask("older", stage(models.StageToFilm), created(viewNow.Add(-2*time.Hour))),
	}
	focus = PickFocus(undated, viewNow)
	require.NotNil(t, focus)
	assert.Equal(t, "older", focus.Title)

	assert.Nil(t, PickFocus([]models.Task{mkTask("idea", stage(models.StageIdea))}, viewNow))
}

func TestBuildCreatorDashboard(t *testing.T) {
	contents := []models.Task{
		mkTask("scheduled today", stage(models.StageScheduled), due(viewNow)),
		mkTask("in seven days", stage(models.StageToFilm), due(viewNow.AddDate(0, 0, 7))),
		mkTask("in eight days", stage(models.StageToFilm), due(viewNow.AddDate(0, 0, 8))),
		mkTask("yesterday", stage(models.StageToEdit), due(viewNow.AddDate(0, 0, -1))),
		mkTask("idea old", stage(models.StageIdea), created(viewNow.Add(-72*time.Hour))),
		mkTask("idea new", stage(models.StageIdea), created(viewNow.Add(-time.Hour))),
		mkTask("published", stage(models.StagePublished), status(models.StatusDone)),
	}

	view := BuildCreatorDashboard(contents, viewNow)

	assert.Equal(t, 7, view.Total)
	assert.Equal(t, 2, view.ToFilm)
	assert.Equal(t, 1, view.ToEdit)
	assert.Equal(t, 1, view.Scheduled)
	assert.Equal(t, 1, view.ScheduledToday)
	assert.Equal(t, []string{"scheduled today", "in seven days"}, titles(view.Upcoming))
	assert.Equal(t, []string{"idea new", "idea old"}, titles(view.BacklogIdeas))
	assert.Equal(t, []string{"idea new", "idea old"}, titles(view.BacklogNoDate))
	require.NotNil(t, view.Focus)
	assert.Equal(t, "yesterday", view.Focus.Title)
}

func TestBuildPipeline(t *testing.T) {
	contents := []models.Task{
		mkTask("old idea", stage(models.StageIdea), created(viewNow.Add(-2*time.Hour))),
		mkTask("new idea", stage(models.StageIdea), created(viewNow.Add(-time.Hour))),
		mkTask("finished", stage(models.StagePublished), status(models.StatusDone)),
		mkTask("orphan", stage(models.StageNone)),
	}

	columns := BuildPipeline(contents)
	require.Len(t, columns, 6)

	keys := make([]string, 0, len(columns))
	for _, col := range columns {
		keys = append(keys, col.Key)
	}
	assert.Equal(t, []string{"idea", "to_film", "to_edit", "scheduled", "published", "none"}, keys)
	assert.Equal(t, []string{"new idea", "old idea"}, titles(columns[0].Tasks))
	assert.Empty(t, columns[4].Tasks)
	assert.Equal(t, []string{"orphan"}, titles(columns[5].Tasks))
}

func TestBuildWeekPartitionsDatedTasks(t *testing.T) {
	start := clock.WeekStart(viewNow)
	var tasks []models.Task
	for offset := -3; offset < 10; offset++ {
		tasks = append(tasks, mkTask(clock.FormatDate(start.AddDate(0, 0, offset)), due(start.AddDate(0, 0, offset))))
	}

	view := BuildWeek(tasks, start, viewNow)

	require.Len(t, view.Days, 7)
	seen := 0
	for i, day := range view.Days {
		assert.Equal(t, start.AddDate(0, 0, i), day.Date)
		require.Len(t, day.Tasks, 1)
		assert.Equal(t, clock.FormatDate(day.Date), day.Tasks[0].Title)
		seen += len(day.Tasks)
	}
	assert.Equal(t, 7, seen)
	assert.True(t, view.Days[2].IsToday)
	assert.Equal(t, start.AddDate(0, 0, -7), view.Prev)
	assert.Equal(t, start.AddDate(0, 0, 7), view.Next)
}

func TestBuildMonthGrid(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		firstCell string
		prevYear  int
		prevMonth time.Month
		nextYear  int
		nextMonth time.Month
	}{
		{2024, time.January, "2024-01-01", 2023, time.December, 2024, time.February},
		{2024, time.December, "2024-11-25", 2024, time.November, 2025, time.January},
		{2026, time.February, "2026-01-26", 2026, time.January, 2026, time.March},
	}

	for _, tt := range tests {
		t.Run(tt.firstCell, func(t *testing.T) {
			task := mkTask("first", due(time.Date(tt.year, tt.month, 1, 0, 0, 0, 0, time.UTC)))
			view := BuildMonth([]models.Task{task}, tt.year, tt.month, viewNow)

			require.Len(t, view.Weeks, 6)
			cells := 0
			found := 0
			for _, week := range view.Weeks {
				require.Len(t, week, 7)
				for _, cell := range week {
					cells++
					found += len(cell.Tasks)
					assert.Equal(t, cell.Date.Month() == tt.month, cell.IsCurrentMonth)
				}
			}
			assert.Equal(t, 42, cells)
			assert.Equal(t, 1, found)
			assert.Equal(t, time.Monday, view.Weeks[0][0].Date.Weekday())
			assert.Equal(t, tt.firstCell, clock.FormatDate(view.Weeks[0][0].Date))
			assert.Equal(t, tt.prevYear, view.PrevYear)
			assert.Equal(t, tt.prevMonth, view.PrevMonth)
			assert.Equal(t, tt.nextYear, view.NextYear)
			assert.Equal(t, tt.nextMonth, view.NextMonth)
		})
	}
}

func TestFilterSearch(t *testing.T) {
	projects := []models.Project{
		{Name: "Launch Video", Description: ""},
		{Name: "Taxes", Description: "receipts for the VIDEO gear"},
		{Name: "Garden"},
	}
	tasks := []models.Task{
		mkTask("Edit video intro", stage(models.StageToEdit), created(viewNow.Add(-time.Hour))),
		mkTask("Buy soil", func(task *models.Task) { task.Description = "for the video shoot" }),
		mkTask("Unrelated"),
	}

	view := FilterSearch(projects, tasks, "  ViDeO ")

	assert.Equal(t, "ViDeO", view.Query)
	assert.Equal(t, 2, view.TotalProjects)
	assert.Equal(t, 2, view.TotalTasks)
	assert.Equal(t, []string{"Buy soil"}, titles(view.GeneralTasks))
	assert.Equal(t, []string{"Edit video intro"}, titles(view.ContentTasks))
}
