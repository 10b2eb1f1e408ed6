package handlers

import (
	"net/http"

	"taskflow/internal/middleware"
	"taskflow/internal/services"

	"github.com/gin-gonic/gin"
)

// CreatorHandler serves the pages reserved for creator accounts.
type CreatorHandler struct {
	queries  services.QueryService
	projects services.ProjectService
	tasks    services.TaskService
}

func NewCreatorHandler(queries services.QueryService, projects services.ProjectService, tasks services.TaskService) *CreatorHandler {
	return &CreatorHandler{queries: queries, projects: projects, tasks: tasks}
}

func (h *CreatorHandler) Dashboard(c *gin.Context) {
	view, err := h.queries.CreatorDashboard(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	render(c, http.StatusOK, "creator_dashboard.html", gin.H{"Title": "Creator studio", "View": view})
}

func (h *CreatorHandler) Pipeline(c *gin.Context) {
	columns, err := h.queries.Pipeline(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	render(c, http.StatusOK, "creator_pipeline.html", gin.H{"Title": "Pipeline", "Columns": columns})
}

func (h *CreatorHandler) NewContentForm(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !user.IsCreator() {
		addFlash(c, "error", "This area is reserved for creator accounts.")
		redirect(c, "/pricing")
		return
	}
	projects, err := h.projects.List(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err, "/creator")
		return
	}

	data := formOptions(gin.H{
		"Title":     "New content",
		"Projects":  projects,
		"Templates": services.ContentTemplates(),
	})
	if tpl, ok := services.ContentTemplateByID(c.Query("template")); ok {
		data["Template"] = tpl
	}
	render(c, http.StatusOK, "creator_new_content.html", data)
}

func (h *CreatorHandler) CreateContent(c *gin.Context) {
	var in services.TaskInput
	if err := c.ShouldBind(&in); err != nil {
		fail(c, err, "/creator/content/new")
		return
	}
	_, warnings, err := h.tasks.CreateContent(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		fail(c, err, "/creator/content/new")
		return
	}
	warn(c, warnings)
	addFlash(c, "success", "Content added to your pipeline.")
	redirect(c, "/creator")
}
