package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"taskflow/internal/apperrors"
	"taskflow/internal/cache"
	"taskflow/internal/clock"
	"taskflow/internal/models"
	"taskflow/internal/repositories"
	"taskflow/internal/services"
	"taskflow/internal/testsupport"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	clock *clock.Fixed

	accounts *services.AccountServiceImpl
	sessions *services.SessionServiceImpl
	projects *services.ProjectServiceImpl
	tasks    *services.TaskServiceImpl
	queries  *services.QueryServiceImpl
	insights *services.CachedInsightService
}

func (s *ServiceTestSuite) SetupTest() {
	db := testsupport.NewDB(s.T())
	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC))

	users := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)

	s.insights = services.NewCachedInsightService(
		services.NewInsightService(taskRepo, s.clock),
		cache.NewMultiLevelCache(nil),
		s.clock,
		time.Hour,
	)
	s.accounts = services.NewAccountService(users, s.clock, bcrypt.MinCost, 6)
	s.sessions = services.NewSessionService(repositories.NewSessionRepository(db), users, s.clock, "test-secret", 24*time.Hour)
	s.projects = services.NewProjectService(projectRepo, s.clock, s.insights)
	s.tasks = services.NewTaskService(taskRepo, projectRepo, s.clock, s.insights)
	s.queries = services.NewQueryService(projectRepo, taskRepo, s.clock)
}

func (s *ServiceTestSuite) register(email string) *models.User {
	user, err := s.accounts.Register(s.ctx, services.RegistrationRequest{Name: "Sam", Email: email, Password: "secret1"})
	s.Require().NoError(err)
	return user
}

func (s *ServiceTestSuite) creator(email string) *models.User {
	user := s.register(email)
	user, err := s.accounts.CompleteOnboarding(s.ctx, user.ID, "creator")
	s.Require().NoError(err)
	return user
}

func (s *ServiceTestSuite) project(owner uuid.UUID) *models.Project {
	p, err := s.projects.Create(s.ctx, owner, "Channel", "videos")
	s.Require().NoError(err)
	return p
}

func (s *ServiceTestSuite) TestRegisterAndAuthenticate() {
	user := s.register("  Sam@Example.COM ")
	s.Equal("sam@example.com", user.Email)
	s.Equal(models.AccountStandard, user.AccountKind)
	s.False(user.OnboardingDone)

	_, err := s.accounts.Register(s.ctx, services.RegistrationRequest{Name: "Other", Email: "sam@example.com", Password: "secret1"})
	s.ErrorIs(err, apperrors.ErrEmailTaken)

	_, err = s.accounts.Register(s.ctx, services.RegistrationRequest{Name: "Weak", Email: "weak@example.com", Password: "123"})
	s.ErrorIs(err, apperrors.ErrWeakPassword)

	long := strings.Repeat("p", 80)
	_, err = s.accounts.Register(s.ctx, services.RegistrationRequest{Name: "Long", Email: "long@example.com", Password: long})
	s.ErrorIs(err, apperrors.ErrPasswordTooLong)
	s.Equal(apperrors.KindValidation, apperrors.KindOf(err))

	_, err = s.accounts.Register(s.ctx, services.RegistrationRequest{Name: "Edge", Email: "edge@example.com", Password: strings.Repeat("p", 72)})
	s.NoError(err)

	_, err = s.accounts.Register(s.ctx, services.RegistrationRequest{Email: "x@example.com", Password: "secret1"})
	s.ErrorIs(err, apperrors.ErrMissingFields)

	found, err := s.accounts.Authenticate(s.ctx, "SAM@example.com", "secret1")
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)

	_, err = s.accounts.Authenticate(s.ctx, "sam@example.com", "wrong-password")
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)

	_, err = s.accounts.Authenticate(s.ctx, "ghost@example.com", "secret1")
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestOnboardingChoices() {
	user := s.register("simple@example.com")

	_, err := s.accounts.CompleteOnboarding(s.ctx, user.ID, "pro")
	s.ErrorIs(err, apperrors.ErrInvalidAccountKind)

	user, err = s.accounts.CompleteOnboarding(s.ctx, user.ID, "simple")
	s.Require().NoError(err)
	s.Equal(models.AccountStandard, user.AccountKind)
	s.True(user.OnboardingDone)

	user, err = s.accounts.UpgradeToCreator(s.ctx, user.ID)
	s.Require().NoError(err)
	s.True(user.IsCreator())
}

func (s *ServiceTestSuite) TestProfileAndPassword() {
	first := s.register("first@example.com")
	s.register("second@example.com")

	_, err := s.accounts.UpdateProfile(s.ctx, first.ID, "First", "SECOND@example.com")
	s.ErrorIs(err, apperrors.ErrEmailTaken)

	updated, err := s.accounts.UpdateProfile(s.ctx, first.ID, "Renamed", "first@example.com")
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Name)

	s.ErrorIs(s.accounts.ChangePassword(s.ctx, first.ID, "nope", "newsecret", "newsecret"), apperrors.ErrInvalidCredentials)
	s.ErrorIs(s.accounts.ChangePassword(s.ctx, first.ID, "secret1", "newsecret", "different"), apperrors.ErrPasswordMismatch)
	s.ErrorIs(s.accounts.ChangePassword(s.ctx, first.ID, "secret1", "abc", "abc"), apperrors.ErrWeakPassword)
	long := strings.Repeat("x", 73)
	err = s.accounts.ChangePassword(s.ctx, first.ID, "secret1", long, long)
	s.ErrorIs(err, apperrors.ErrPasswordTooLong)
	s.Equal(apperrors.KindValidation, apperrors.KindOf(err))
	s.Require().NoError(s.accounts.ChangePassword(s.ctx, first.ID, "secret1", "newsecret", "newsecret"))

	_, err = s.accounts.Authenticate(s.ctx, "first@example.com", "newsecret")
	s.NoError(err)
}

func (s *ServiceTestSuite) TestSessionLifecycle() {
	user := s.register("session@example.com")

	token, expiresAt, err := s.sessions.Issue(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(24*time.Hour), expiresAt)

	resolved, err := s.sessions.Resolve(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(user.ID, resolved.ID)

	_, err = s.sessions.Resolve(s.ctx, token+"x")
	s.ErrorIs(err, services.ErrInvalidSession)

	s.Require().NoError(s.sessions.Revoke(s.ctx, token))
	_, err = s.sessions.Resolve(s.ctx, token)
	s.ErrorIs(err, services.ErrInvalidSession)

	token, _, err = s.sessions.Issue(s.ctx, user.ID)
	s.Require().NoError(err)
	s.clock.Advance(25 * time.Hour)
	_, err = s.sessions.Resolve(s.ctx, token)
	s.ErrorIs(err, services.ErrInvalidSession)
}

func (s *ServiceTestSuite) TestAddTaskDefaultsAndWarnings() {
	user := s.register("tasks@example.com")
	p := s.project(user.ID)

	task, warnings, err := s.tasks.Add(s.ctx, user.ID, p.ID, services.TaskInput{
		Title:        "  Write report ",
		Priority:     "urgent",
		TaskType:     "general",
		Platform:     "tiktok",
		CreatorStage: "idea",
		DueDate:      "2024-13-40",
	})
	s.Require().NoError(err)
	s.Equal("Write report", task.Title)
	s.Equal(models.StatusTodo, task.Status)
	s.Equal(models.PriorityMedium, task.Priority)
	s.Empty(task.Platform)
	s.Equal(models.StageNone, task.CreatorStage)
	s.Nil(task.DueDate)
	s.Len(warnings, 2)
	s.ErrorIs(warnings[0], apperrors.ErrInvalidPriority)
	s.ErrorIs(warnings[1], apperrors.ErrInvalidDate)
	s.Equal(s.clock.Now(), task.CreatedAt)

	_, _, err = s.tasks.Add(s.ctx, user.ID, p.ID, services.TaskInput{Title: "   "})
	s.ErrorIs(err, apperrors.ErrMissingTitle)

	stranger := s.register("stranger@example.com")
	_, _, err = s.tasks.Add(s.ctx, stranger.ID, p.ID, services.TaskInput{Title: "sneaky"})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ServiceTestSuite) TestEditTask() {
	user := s.register("edit@example.com")
	p := s.project(user.ID)

	task, _, err := s.tasks.Add(s.ctx, user.ID, p.ID, services.TaskInput{
		Title:        "Clip",
		TaskType:     "content",
		Platform:     "youtube",
		CreatorStage: "to_film",
		DueDate:      "2024-05-20",
	})
	s.Require().NoError(err)
	s.Require().NotNil(task.DueDate)

	s.clock.Advance(time.Hour)
	edited, warnings, err := s.tasks.Edit(s.ctx, user.ID, task.ID, services.TaskInput{
		Title:        "Clip v2",
		Status:       "paused",
		TaskType:     "content",
		Platform:     " youtube ",
		CreatorStage: "to_edit",
	})
	s.Require().NoError(err)
	s.Len(warnings, 1)
	s.ErrorIs(warnings[0], apperrors.ErrInvalidStatus)
	s.Equal("Clip v2", edited.Title)
	s.Equal(models.StatusTodo, edited.Status)
	s.Equal(models.StageToEdit, edited.CreatorStage)
	s.Equal("youtube", edited.Platform)
	s.Nil(edited.DueDate, "an empty due date clears it on edit")
	s.Equal(s.clock.Now(), edited.UpdatedAt)

	edited, _, err = s.tasks.Edit(s.ctx, user.ID, task.ID, services.TaskInput{Title: "Clip v2", TaskType: "content", Platform: ""})
	s.Require().NoError(err)
	s.Empty(edited.Platform, "clearing the platform field clears it")
	s.Equal(models.StageToEdit, edited.CreatorStage)

	reloaded, err := s.tasks.Get(s.ctx, user.ID, task.ID)
	s.Require().NoError(err)
	s.Empty(reloaded.Platform)

	edited, _, err = s.tasks.Edit(s.ctx, user.ID, task.ID, services.TaskInput{Title: "Clip v2", Platform: "tiktok", TaskType: "general"})
	s.Require().NoError(err)
	s.Empty(edited.Platform)
	s.Equal(models.StageNone, edited.CreatorStage)
}

func (s *ServiceTestSuite) TestMoveDate() {
	user := s.register("move@example.com")
	stranger := s.register("other@example.com")
	p := s.project(user.ID)
	task, _, err := s.tasks.Add(s.ctx, user.ID, p.ID, services.TaskInput{Title: "Move me"})
	s.Require().NoError(err)

	_, err = s.tasks.MoveDate(s.ctx, stranger.ID, task.ID, "")
	s.ErrorIs(err, apperrors.ErrNotFound, "ownership is checked before the payload")

	_, err = s.tasks.MoveDate(s.ctx, user.ID, task.ID, "")
	s.ErrorIs(err, apperrors.ErrMissingDate)

	_, err = s.tasks.MoveDate(s.ctx, user.ID, task.ID, "tomorrow")
	s.ErrorIs(err, apperrors.ErrInvalidDate)

	s.clock.Advance(time.Minute)
	moved, err := s.tasks.MoveDate(s.ctx, user.ID, task.ID, "2024-06-01")
	s.Require().NoError(err)
	s.Equal("2024-06-01", clock.FormatDate(*moved.DueDate))
	s.Equal(s.clock.Now(), moved.UpdatedAt)

	stored, err := s.tasks.Get(s.ctx, user.ID, task.ID)
	s.Require().NoError(err)
	s.Equal("2024-06-01", clock.FormatDate(stored.DueDate.In(time.UTC)))
}

func (s *ServiceTestSuite) TestCreateContentRequiresCreator() {
	user := s.register("plain@example.com")
	p := s.project(user.ID)

	_, _, err := s.tasks.CreateContent(s.ctx, user, services.TaskInput{Title: "Reel", ProjectID: p.ID.String()})
	s.ErrorIs(err, apperrors.ErrCreatorOnly)

	_, err = s.queries.CreatorDashboard(s.ctx, user)
	s.ErrorIs(err, apperrors.ErrCreatorOnly)

	_, err = s.queries.Pipeline(s.ctx, user)
	s.ErrorIs(err, apperrors.ErrCreatorOnly)
}

func (s *ServiceTestSuite) TestCreatorFlow() {
	user := s.creator("creator@example.com")
	p := s.project(user.ID)

	tpl, ok := services.ContentTemplateByID("reel_facecam")
	s.Require().True(ok)

	content, _, err := s.tasks.CreateContent(s.ctx, user, services.TaskInput{
		ProjectID:   p.ID.String(),
		Title:       tpl.DefaultTitle + "morning routine",
		Description: tpl.DefaultDescription,
		Platform:    tpl.Platform,
		Priority:    "high",
		DueDate:     "2024-05-15",
	})
	s.Require().NoError(err)
	s.Equal(models.TaskContent, content.TaskType)
	s.Equal(models.StageIdea, content.CreatorStage)
	s.Equal("instagram", content.Platform)

	columns, err := s.queries.Pipeline(s.ctx, user)
	s.Require().NoError(err)
	s.Len(columns[0].Tasks, 1)

	for _, stage := range []string{"to_film", "to_edit", "scheduled", "published"} {
		s.clock.Advance(time.Hour)
		_, err := s.tasks.SetCreatorStage(s.ctx, user.ID, content.ID, stage)
		s.Require().NoError(err)
	}

	dash, err := s.queries.CreatorDashboard(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(1, dash.Total)
	s.Nil(dash.Focus)

	before, err := s.insights.Insights(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(0, before.DoneThisWeek)

	_, err = s.tasks.SetStatus(s.ctx, user.ID, content.ID, "done")
	s.Require().NoError(err)

	after, err := s.insights.Insights(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(1, after.DoneThisWeek)
	s.Equal(1, after.WeekContent)
	s.Equal(1, after.Heatmap[len(after.Heatmap)-1].Count)

	columns, err = s.queries.Pipeline(s.ctx, user)
	s.Require().NoError(err)
	for _, col := range columns {
		s.Empty(col.Tasks, "done content leaves the pipeline")
	}

	general, _, err := s.tasks.Add(s.ctx, user.ID, p.ID, services.TaskInput{Title: "Invoice"})
	s.Require().NoError(err)
	_, err = s.tasks.SetCreatorStage(s.ctx, user.ID, general.ID, "idea")
	s.ErrorIs(err, apperrors.ErrWrongTaskKind)
}

func (s *ServiceTestSuite) TestDeleteProjectCascades() {
	user := s.register("cascade@example.com")
	p := s.project(user.ID)
	task, _, err := s.tasks.Add(s.ctx, user.ID, p.ID, services.TaskInput{Title: "doomed"})
	s.Require().NoError(err)

	stranger := s.register("intruder@example.com")
	s.ErrorIs(s.projects.Delete(s.ctx, stranger.ID, p.ID), apperrors.ErrNotFound)

	s.Require().NoError(s.projects.Delete(s.ctx, user.ID, p.ID))

	_, err = s.projects.Get(s.ctx, user.ID, p.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.tasks.Get(s.ctx, user.ID, task.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ServiceTestSuite) TestCalendarQuery() {
	user := s.register("calendar@example.com")
	p := s.project(user.ID)
	for _, in := range []services.TaskInput{
		{Title: "monday high", Priority: "high", DueDate: "2024-05-13"},
		{Title: "friday low", Priority: "low", DueDate: "2024-05-17"},
		{Title: "undated"},
		{Title: "june", DueDate: "2024-06-03"},
		{Title: "late may", DueDate: "2024-05-28"},
	} {
		_, _, err := s.tasks.Add(s.ctx, user.ID, p.ID, in)
		s.Require().NoError(err)
	}

	week, err := s.queries.Calendar(s.ctx, user.ID, services.CalendarQuery{Priority: "bogus", WeekStart: "not-a-date"})
	s.Require().NoError(err)
	s.Equal(services.CalendarWeek, week.Mode)
	s.Require().NotNil(week.Week)
	s.Equal("2024-05-13", clock.FormatDate(week.Week.Start))
	s.Len(week.Week.Days[0].Tasks, 1)
	s.Len(week.Week.Days[4].Tasks, 1)

	filtered, err := s.queries.Calendar(s.ctx, user.ID, services.CalendarQuery{Priority: "high"})
	s.Require().NoError(err)
	s.Len(filtered.Week.Days[0].Tasks, 1)
	s.Empty(filtered.Week.Days[4].Tasks)

	month, err := s.queries.Calendar(s.ctx, user.ID, services.CalendarQuery{View: "month", Year: "2024", Month: "13"})
	s.Require().NoError(err)
	s.Require().NotNil(month.Month)
	s.Equal(time.May, month.Month.Month)

	other, err := s.queries.Calendar(s.ctx, user.ID, services.CalendarQuery{View: "agenda", Year: "2024", Month: "5"})
	s.Require().NoError(err)
	s.Equal(services.CalendarMonth, other.Mode, "an unknown view falls to the month grid")
	s.Require().NotNil(other.Month)
	s.Nil(other.Week)

	explicit, err := s.queries.Calendar(s.ctx, user.ID, services.CalendarQuery{View: " week "})
	s.Require().NoError(err)
	s.Equal(services.CalendarWeek, explicit.Mode)

	june, err := s.queries.Calendar(s.ctx, user.ID, services.CalendarQuery{View: "month", Year: "2024", Month: "6"})
	s.Require().NoError(err)
	found := 0
	for _, week := range june.Month.Weeks {
		for _, cell := range week {
			found += len(cell.Tasks)
		}
	}
	s.Equal(2, found, "the June grid also shows the last days of May")
}

func (s *ServiceTestSuite) TestSearchAndBoard() {
	user := s.register("search@example.com")
	p := s.project(user.ID)
	task, _, err := s.tasks.Add(s.ctx, user.ID, p.ID, services.TaskInput{Title: "Record VOICEOVER"})
	s.Require().NoError(err)
	_, err = s.tasks.SetStatus(s.ctx, user.ID, task.ID, "in_progress")
	s.Require().NoError(err)

	_, err = s.queries.Search(s.ctx, user.ID, "   ")
	s.ErrorIs(err, apperrors.ErrMissingFields)

	view, err := s.queries.Search(s.ctx, user.ID, "voiceover")
	s.Require().NoError(err)
	s.Equal(1, view.TotalTasks)

	stranger := s.register("peek@example.com")
	view, err = s.queries.Search(s.ctx, stranger.ID, "voiceover")
	s.Require().NoError(err)
	s.Zero(view.TotalTasks)

	board, err := s.queries.ProjectBoard(s.ctx, user.ID, p.ID)
	s.Require().NoError(err)
	s.Require().Len(board.Columns, 3)
	s.Empty(board.Columns[0].Tasks)
	s.Len(board.Columns[1].Tasks, 1)

	_, err = s.queries.ProjectBoard(s.ctx, stranger.ID, p.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
