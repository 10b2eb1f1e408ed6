package handlers

import (
	"net/http"

	"taskflow/internal/middleware"
	"taskflow/internal/models"
	"taskflow/internal/services"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projects services.ProjectService
	tasks    services.TaskService
	queries  services.QueryService
}

func NewProjectHandler(projects services.ProjectService, tasks services.TaskService, queries services.QueryService) *ProjectHandler {
	return &ProjectHandler{projects: projects, tasks: tasks, queries: queries}
}

// formOptions lists the choices every task form offers.
func formOptions(data gin.H) gin.H {
	data["Statuses"] = models.Statuses
	data["Priorities"] = models.Priorities
	data["Stages"] = models.Stages
	return data
}

func (h *ProjectHandler) NewForm(c *gin.Context) {
	render(c, http.StatusOK, "project_new.html", gin.H{"Title": "New project"})
}

func (h *ProjectHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	project, err := h.projects.Create(c.Request.Context(), user.ID, c.PostForm("name"), c.PostForm("description"))
	if err != nil {
		fail(c, err, "/project/new")
		return
	}
	addFlash(c, "success", "Project created.")
	redirect(c, "/project/"+project.ID.String())
}

func (h *ProjectHandler) Show(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	board, err := h.queries.ProjectBoard(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	render(c, http.StatusOK, "project_detail.html", formOptions(gin.H{
		"Title": board.Project.Name,
		"Board": board,
	}))
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err == nil {
		err = h.projects.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	}
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	addFlash(c, "success", "Project deleted with all its tasks.")
	redirect(c, "/dashboard")
}

func (h *ProjectHandler) AddTask(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	target := "/project/" + id.String()

	var in services.TaskInput
	if err := c.ShouldBind(&in); err != nil {
		fail(c, err, target)
		return
	}
	_, warnings, err := h.tasks.Add(c.Request.Context(), middleware.CurrentUser(c).ID, id, in)
	if err != nil {
		fail(c, err, target)
		return
	}
	warn(c, warnings)
	addFlash(c, "success", "Task added.")
	redirect(c, target)
}
