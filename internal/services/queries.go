package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"taskflow/internal/apperrors"
	"taskflow/internal/clock"
	"taskflow/internal/models"
	"taskflow/internal/repositories"

	"github.com/gofrs/uuid"
)

const (
	CalendarWeek  = "week"
	CalendarMonth = "month"
)

// CalendarQuery holds the raw calendar query string. Unrecognized values
// are ignored rather than rejected.
type CalendarQuery struct {
	View      string `form:"view"`
	WeekStart string `form:"week_start"`
	Year      string `form:"year"`
	Month     string `form:"month"`
	ProjectID string `form:"project_id"`
	Priority  string `form:"priority"`
	Status    string `form:"status"`
	TaskType  string `form:"task_type"`
	Platform  string `form:"platform"`
}

// Filter converts the recognized filter values into a repository filter.
func (q CalendarQuery) Filter() repositories.TaskFilter {
	var f repositories.TaskFilter
	if id, err := uuid.FromString(strings.TrimSpace(q.ProjectID)); err == nil {
		f.ProjectID = &id
	}
	if p, ok := models.ParsePriority(q.Priority); ok {
		f.Priority = p
	}
	if s, ok := models.ParseTaskStatus(q.Status); ok {
		f.Status = s
	}
	if t, ok := models.ParseTaskType(q.TaskType); ok {
		f.TaskType = t
	}
	f.Platform = strings.TrimSpace(q.Platform)
	return f
}

type CalendarView struct {
	Mode     string
	Week     *WeekView
	Month    *MonthView
	Projects []models.Project
	Filters  CalendarQuery
}

type StatusColumn struct {
	Status models.TaskStatus
	Label  string
	Tasks  []models.Task
}

type ProjectBoard struct {
	Project *models.Project
	Columns []StatusColumn
}

type QueryService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (DashboardView, error)
	Today(ctx context.Context, userID uuid.UUID) (TodayView, error)
	CreatorDashboard(ctx context.Context, user *models.User) (CreatorDashboardView, error)
	Pipeline(ctx context.Context, user *models.User) ([]StageColumn, error)
	Calendar(ctx context.Context, userID uuid.UUID, q CalendarQuery) (CalendarView, error)
	Search(ctx context.Context, userID uuid.UUID, q string) (SearchView, error)
	ProjectBoard(ctx context.Context, userID, projectID uuid.UUID) (ProjectBoard, error)
}

type QueryServiceImpl struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	clock    clock.Clock
}

func NewQueryService(projects repositories.ProjectRepository, tasks repositories.TaskRepository, clk clock.Clock) *QueryServiceImpl {
	return &QueryServiceImpl{projects: projects, tasks: tasks, clock: clk}
}

func (s *QueryServiceImpl) Dashboard(ctx context.Context, userID uuid.UUID) (DashboardView, error) {
	projects, err := s.projects.ListByOwner(ctx, userID)
	if err != nil {
		return DashboardView{}, err
	}
	tasks, err := s.tasks.List(ctx, userID, repositories.TaskFilter{})
	if err != nil {
		return DashboardView{}, err
	}
	return BuildDashboard(projects, tasks, s.clock.Now()), nil
}

func (s *QueryServiceImpl) Today(ctx context.Context, userID uuid.UUID) (TodayView, error) {
	tasks, err := s.tasks.List(ctx, userID, repositories.TaskFilter{WithProject: true})
	if err != nil {
		return TodayView{}, err
	}
	return BuildToday(tasks, s.clock.Now()), nil
}

func (s *QueryServiceImpl) contents(ctx context.Context, user *models.User) ([]models.Task, error) {
	if !user.IsCreator() {
		return nil, apperrors.ErrCreatorOnly
	}
	return s.tasks.List(ctx, user.ID, repositories.TaskFilter{TaskType: models.TaskContent, WithProject: true})
}

func (s *QueryServiceImpl) CreatorDashboard(ctx context.Context, user *models.User) (CreatorDashboardView, error) {
	contents, err := s.contents(ctx, user)
	if err != nil {
		return CreatorDashboardView{}, err
	}
	return BuildCreatorDashboard(contents, s.clock.Now()), nil
}

func (s *QueryServiceImpl) Pipeline(ctx context.Context, user *models.User) ([]StageColumn, error) {
	contents, err := s.contents(ctx, user)
	if err != nil {
		return nil, err
	}
	return BuildPipeline(contents), nil
}

// Calendar shows dated tasks for a week when no view is given or the view
// is "week". Any other view renders the month grid.
func (s *QueryServiceImpl) Calendar(ctx context.Context, userID uuid.UUID, q CalendarQuery) (CalendarView, error) {
	now := s.clock.Now()

	projects, err := s.projects.ListByOwner(ctx, userID)
	if err != nil {
		return CalendarView{}, err
	}
	all, err := s.tasks.List(ctx, userID, q.Filter())
	if err != nil {
		return CalendarView{}, err
	}
	dated := all[:0]
	for _, t := range all {
		if t.DueDate != nil {
			dated = append(dated, t)
		}
	}

	view := CalendarView{Projects: projects, Filters: q}
	if v := strings.TrimSpace(q.View); v != "" && v != CalendarWeek {
		year, month := parseMonth(q.Year, q.Month, now)
		mv := BuildMonth(dated, year, month, now)
		view.Mode, view.Month = CalendarMonth, &mv
		return view, nil
	}

	start := clock.WeekStart(now)
	if parsed, err := clock.ParseDate(q.WeekStart, now.Location()); err == nil {
		start = parsed
	}
	wv := BuildWeek(dated, start, now)
	view.Mode, view.Week = CalendarWeek, &wv
	return view, nil
}

// parseMonth falls back to the current year and month for missing or
// out-of-range values.
func parseMonth(rawYear, rawMonth string, now time.Time) (int, time.Month) {
	year, month := now.Year(), now.Month()
	if y, err := strconv.Atoi(strings.TrimSpace(rawYear)); err == nil && y >= 1 && y <= 9999 {
		year = y
	}
	if m, err := strconv.Atoi(strings.TrimSpace(rawMonth)); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	return year, month
}

// Search returns ErrMissingFields for a blank query.
func (s *QueryServiceImpl) Search(ctx context.Context, userID uuid.UUID, q string) (SearchView, error) {
	if strings.TrimSpace(q) == "" {
		return SearchView{}, apperrors.ErrMissingFields
	}
	projects, err := s.projects.ListByOwner(ctx, userID)
	if err != nil {
		return SearchView{}, err
	}
	tasks, err := s.tasks.List(ctx, userID, repositories.TaskFilter{WithProject: true})
	if err != nil {
		return SearchView{}, err
	}
	return FilterSearch(projects, tasks, q), nil
}

func (s *QueryServiceImpl) ProjectBoard(ctx context.Context, userID, projectID uuid.UUID) (ProjectBoard, error) {
	project, err := s.projects.FindOwned(ctx, userID, projectID)
	if err != nil {
		return ProjectBoard{}, err
	}
	tasks, err := s.tasks.List(ctx, userID, repositories.TaskFilter{ProjectID: &project.ID})
	if err != nil {
		return ProjectBoard{}, err
	}

	board := ProjectBoard{Project: project, Columns: make([]StatusColumn, len(models.Statuses))}
	for i, status := range models.Statuses {
		board.Columns[i] = StatusColumn{Status: status, Label: status.Label()}
		for _, t := range tasks {
			if t.Status == status {
				board.Columns[i].Tasks = append(board.Columns[i].Tasks, t)
			}
		}
	}
	return board, nil
}
