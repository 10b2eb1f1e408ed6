package services

import (
	"sort"
	"strings"
	"time"

	"taskflow/internal/clock"
	"taskflow/internal/models"
)

type DashboardView struct {
	Projects        []models.Project
	ProjectCount    int
	OpenTotal       int
	OpenGeneral     int
	OpenContent     int
	ContentDueToday int
	ToFilm          int
	ToEdit          int
	Scheduled       int
	DoneThisWeek    int
	DoneThisMonth   int
	Today           time.Time
}

type StageColumn struct {
	Stage models.CreatorStage
	Key   string
	Label string
	Tasks []models.Task
}

type TodayView struct {
	Today             time.Time
	General           []models.Task
	Content           []models.Task
	ContentByStage    []StageColumn
	GeneralInProgress []models.Task
	ContentInProgress []models.Task
	Total             int
	TotalGeneral      int
	TotalContent      int
}

type CreatorDashboardView struct {
	Today          time.Time
	Total          int
	ToFilm         int
	ToEdit         int
	Scheduled      int
	ScheduledToday int
	Upcoming       []models.Task
	BacklogIdeas   []models.Task
	BacklogNoDate  []models.Task
	Focus          *models.Task
}

type CalendarDay struct {
	Date           time.Time
	Tasks          []models.Task
	IsCurrentMonth bool
	IsToday        bool
}

type WeekView struct {
	Start time.Time
	Days  []CalendarDay
	Prev  time.Time
	Next  time.Time
}

type MonthView struct {
	Year      int
	Month     time.Month
	Weeks     [][]CalendarDay
	PrevYear  int
	PrevMonth time.Month
	NextYear  int
	NextMonth time.Month
}

type SearchView struct {
	Query         string
	Projects      []models.Project
	GeneralTasks  []models.Task
	ContentTasks  []models.Task
	TotalProjects int
	TotalTasks    int
}

// localDue returns the due date in the location of ref.
func localDue(t *models.Task, ref time.Time) (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	return t.DueDate.In(ref.Location()), true
}

func dueOn(t *models.Task, day time.Time) bool {
	due, ok := localDue(t, day)
	return ok && clock.SameDay(due, day)
}

// doneSince reports a done task whose last update is in [from, end of now's day).
func doneSince(t *models.Task, from, now time.Time) bool {
	if t.Status != models.StatusDone {
		return false
	}
	return !t.UpdatedAt.Before(from) && t.UpdatedAt.Before(clock.NextDay(now))
}

func splitByKind(tasks []models.Task) (general, content []models.Task) {
	for _, t := range tasks {
		if t.IsContent() {
			content = append(content, t)
		} else {
			general = append(general, t)
		}
	}
	return general, content
}

func byPriorityThenNewest(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		pi, pj := tasks[i].Priority.Rank(), tasks[j].Priority.Rank()
		if pi != pj {
			return pi > pj
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func newestFirst(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// GroupByStage buckets tasks into the six stage columns in display order.
// Input order is kept inside each column.
func GroupByStage(tasks []models.Task) []StageColumn {
	columns := make([]StageColumn, len(models.Stages))
	index := make(map[models.CreatorStage]int, len(models.Stages))
	for i, stage := range models.Stages {
		columns[i] = StageColumn{Stage: stage, Key: stage.Key(), Label: stage.Label()}
		index[stage] = i
	}
	for _, t := range tasks {
		i := index[t.Stage()]
		columns[i].Tasks = append(columns[i].Tasks, t)
	}
	return columns
}

// BuildDashboard counts over all of a user's tasks.
func BuildDashboard(projects []models.Project, tasks []models.Task, now time.Time) DashboardView {
	view := DashboardView{
		Projects:     projects,
		ProjectCount: len(projects),
		Today:        clock.StartOfDay(now),
	}
	weekStart, monthStart := clock.WeekStart(now), clock.MonthStart(now)

	for i := range tasks {
		t := &tasks[i]
		if doneSince(t, weekStart, now) {
			view.DoneThisWeek++
		}
		if doneSince(t, monthStart, now) {
			view.DoneThisMonth++
		}
		if !t.IsOpen() {
			continue
		}

		view.OpenTotal++
		if !t.IsContent() {
			view.OpenGeneral++
			continue
		}
		view.OpenContent++
		if dueOn(t, now) {
			view.ContentDueToday++
		}
		switch t.Stage() {
		case models.StageToFilm:
			view.ToFilm++
		case models.StageToEdit:
			view.ToEdit++
		case models.StageScheduled:
			view.Scheduled++
		}
	}
	return view
}

func BuildToday(tasks []models.Task, now time.Time) TodayView {
	var due, inProgress []models.Task
	for i := range tasks {
		t := &tasks[i]
		if t.IsOpen() && dueOn(t, now) {
			due = append(due, *t)
		}
		if t.Status == models.StatusInProgress {
			inProgress = append(inProgress, *t)
		}
	}
	byPriorityThenNewest(due)
	byPriorityThenNewest(inProgress)

	view := TodayView{Today: clock.StartOfDay(now), Total: len(due)}
	view.General, view.Content = splitByKind(due)
	view.GeneralInProgress, view.ContentInProgress = splitByKind(inProgress)
	view.ContentByStage = GroupByStage(view.Content)
	view.TotalGeneral = len(view.General)
	view.TotalContent = len(view.Content)
	return view
}

// BuildCreatorDashboard expects the user's content tasks only.
func BuildCreatorDashboard(contents []models.Task, now time.Time) CreatorDashboardView {
	today := clock.StartOfDay(now)
	horizon := today.AddDate(0, 0, 7)
	view := CreatorDashboardView{Today: today, Total: len(contents)}

	for i := range contents {
		t := &contents[i]
		stage := t.Stage()
		switch stage {
		case models.StageToFilm:
			view.ToFilm++
		case models.StageToEdit:
			view.ToEdit++
		case models.StageScheduled:
			view.Scheduled++
			if dueOn(t, now) {
				view.ScheduledToday++
			}
		}

		if stage == models.StageIdea {
			view.BacklogIdeas = append(view.BacklogIdeas, *t)
		}
		if !t.IsOpen() {
			continue
		}
		due, dated := localDue(t, now)
		if !dated {
			view.BacklogNoDate = append(view.BacklogNoDate, *t)
			continue
		}
		if !due.Before(today) && !due.After(horizon) {
			view.Upcoming = append(view.Upcoming, *t)
		}
	}

	sort.SliceStable(view.Upcoming, func(i, j int) bool {
		return view.Upcoming[i].DueDate.Before(*view.Upcoming[j].DueDate)
	})
	newestFirst(view.BacklogIdeas)
	newestFirst(view.BacklogNoDate)
	view.Focus = PickFocus(contents, now)
	return view
}

// PickFocus chooses the content task to work on today: an open to_film or
// to_edit task due today by priority, else the next such task by due date
// with undated tasks last. Returns nil when there is none.
func PickFocus(contents []models.Task, now time.Time) *models.Task {
	var candidates, today []models.Task
	for _, t := range contents {
		if !t.IsContent() || !t.IsOpen() {
			continue
		}
		if stage := t.Stage(); stage != models.StageToFilm && stage != models.StageToEdit {
			continue
		}
		candidates = append(candidates, t)
		if dueOn(&t, now) {
			today = append(today, t)
		}
	}

	if len(today) > 0 {
		sort.SliceStable(today, func(i, j int) bool {
			a, b := today[i], today[j]
			if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
				return ra > rb
			}
			if !a.DueDate.Equal(*b.DueDate) {
				return a.DueDate.Before(*b.DueDate)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
		return &today[0]
	}

	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra > rb
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return &candidates[0]
}

// BuildPipeline lays open content tasks out in the six stage columns,
// newest first within each column.
func BuildPipeline(contents []models.Task) []StageColumn {
	var open []models.Task
	for _, t := range contents {
		if t.IsContent() && t.IsOpen() {
			open = append(open, t)
		}
	}
	newestFirst(open)
	return GroupByStage(open)
}

// BuildWeek buckets dated tasks into the seven days starting at start.
func BuildWeek(tasks []models.Task, start, now time.Time) WeekView {
	start = clock.StartOfDay(start)
	view := WeekView{
		Start: start,
		Days:  make([]CalendarDay, 7),
		Prev:  start.AddDate(0, 0, -7),
		Next:  start.AddDate(0, 0, 7),
	}
	for i := range view.Days {
		day := start.AddDate(0, 0, i)
		view.Days[i] = CalendarDay{
			Date:           day,
			Tasks:          tasksOn(tasks, day),
			IsCurrentMonth: true,
			IsToday:        clock.SameDay(day, now),
		}
	}
	return view
}

// BuildMonth renders a six-week grid starting on the Monday on or before
// the first of the month.
func BuildMonth(tasks []models.Task, year int, month time.Month, now time.Time) MonthView {
	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	start := clock.WeekStart(first)

	view := MonthView{Year: year, Month: month, Weeks: make([][]CalendarDay, 6)}
	prev, next := first.AddDate(0, -1, 0), first.AddDate(0, 1, 0)
	view.PrevYear, view.PrevMonth = prev.Year(), prev.Month()
	view.NextYear, view.NextMonth = next.Year(), next.Month()

	day := start
	for w := range view.Weeks {
		week := make([]CalendarDay, 7)
		for d := range week {
			week[d] = CalendarDay{
				Date:           day,
				Tasks:          tasksOn(tasks, day),
				IsCurrentMonth: day.Month() == month,
				IsToday:        clock.SameDay(day, now),
			}
			day = day.AddDate(0, 0, 1)
		}
		view.Weeks[w] = week
	}
	return view
}

func tasksOn(tasks []models.Task, day time.Time) []models.Task {
	var out []models.Task
	for i := range tasks {
		if dueOn(&tasks[i], day) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// FilterSearch keeps projects and tasks containing q, ignoring case.
func FilterSearch(projects []models.Project, tasks []models.Task, q string) SearchView {
	q = strings.TrimSpace(q)
	needle := strings.ToLower(q)
	match := func(fields ...string) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), needle) {
				return true
			}
		}
		return false
	}

	view := SearchView{Query: q}
	for _, p := range projects {
		if match(p.Name, p.Description) {
			view.Projects = append(view.Projects, p)
		}
	}
	var found []models.Task
	for _, t := range tasks {
		if match(t.Title, t.Description) {
			found = append(found, t)
		}
	}
	newestFirst(found)
	view.GeneralTasks, view.ContentTasks = splitByKind(found)
	view.TotalProjects = len(view.Projects)
	view.TotalTasks = len(found)
	return view
}
