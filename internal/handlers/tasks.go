package handlers

import (
	"errors"
	"io"
	"net/http"

	"taskflow/internal/apperrors"
	"taskflow/internal/middleware"
	"taskflow/internal/models"
	"taskflow/internal/services"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	tasks services.TaskService
}

func NewTaskHandler(tasks services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) load(c *gin.Context) (*models.Task, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	return h.tasks.Get(c.Request.Context(), middleware.CurrentUser(c).ID, id)
}

func projectPath(task *models.Task) string {
	return "/project/" + task.ProjectID.String()
}

func (h *TaskHandler) Show(c *gin.Context) {
	task, err := h.load(c)
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	render(c, http.StatusOK, "task_detail.html", gin.H{"Title": task.Title, "Task": task})
}

// Drawer renders the task panel fragment loaded by the calendar.
func (h *TaskHandler) Drawer(c *gin.Context) {
	task, err := h.load(c)
	if err != nil {
		failJSON(c, err)
		return
	}
	c.HTML(http.StatusOK, "task_drawer.html", gin.H{"Task": task})
}

func (h *TaskHandler) EditForm(c *gin.Context) {
	task, err := h.load(c)
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	render(c, http.StatusOK, "task_edit.html", formOptions(gin.H{"Title": "Edit task", "Task": task}))
}

func (h *TaskHandler) Edit(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}

	var in services.TaskInput
	if err := c.ShouldBind(&in); err != nil {
		fail(c, err, "/task/"+id.String()+"/edit")
		return
	}
	task, warnings, err := h.tasks.Edit(c.Request.Context(), middleware.CurrentUser(c).ID, id, in)
	if err != nil {
		fail(c, err, "/task/"+id.String()+"/edit")
		return
	}
	warn(c, warnings)
	addFlash(c, "success", "Task updated.")
	redirect(c, projectPath(task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	task, err := h.tasks.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	addFlash(c, "success", "Task deleted.")
	redirect(c, projectPath(task))
}

var statusMessages = map[models.TaskStatus]string{
	models.StatusTodo:       "Task moved back to do.",
	models.StatusInProgress: "Task in progress.",
	models.StatusDone:       "Task marked as done.",
}

func (h *TaskHandler) SetStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	task, err := h.tasks.SetStatus(c.Request.Context(), middleware.CurrentUser(c).ID, id, c.Param("value"))
	if err != nil {
		fallback := "/dashboard"
		if task != nil {
			fallback = projectPath(task)
		}
		fail(c, err, fallback)
		return
	}
	addFlash(c, "success", statusMessages[task.Status])
	back(c, "/calendar?view=week")
}

func (h *TaskHandler) SetStage(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	_, err = h.tasks.SetCreatorStage(c.Request.Context(), middleware.CurrentUser(c).ID, id, c.Param("value"))
	if err != nil {
		fail(c, err, "/creator")
		return
	}
	addFlash(c, "success", "Content stage updated.")
	back(c, "/creator/pipeline")
}

type moveDateRequest struct {
	DueDate string `json:"due_date"`
}

// MoveDate is the JSON endpoint behind calendar drag and drop.
func (h *TaskHandler) MoveDate(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	// An empty body falls through to the missing date answer.
	var req moveDateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	_, err = h.tasks.MoveDate(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.DueDate)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrMissingDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing due_date"})
	case errors.Is(err, apperrors.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad date"})
	default:
		failJSON(c, err)
	}
}
