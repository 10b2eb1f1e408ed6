package handlers

import (
	"net/http"
	"strings"

	"taskflow/internal/middleware"
	"taskflow/internal/services"

	"github.com/gin-gonic/gin"
)

type ViewHandler struct {
	queries  services.QueryService
	insights services.InsightProvider
}

func NewViewHandler(queries services.QueryService, insights services.InsightProvider) *ViewHandler {
	return &ViewHandler{queries: queries, insights: insights}
}

func (h *ViewHandler) Dashboard(c *gin.Context) {
	view, err := h.queries.Dashboard(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err, "/")
		return
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "View": view})
}

func (h *ViewHandler) Today(c *gin.Context) {
	view, err := h.queries.Today(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	render(c, http.StatusOK, "today.html", gin.H{"Title": "Today", "View": view})
}

func (h *ViewHandler) Calendar(c *gin.Context) {
	var q services.CalendarQuery
	_ = c.ShouldBindQuery(&q)

	view, err := h.queries.Calendar(c.Request.Context(), middleware.CurrentUser(c).ID, q)
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	render(c, http.StatusOK, "calendar.html", formOptions(gin.H{"Title": "Calendar", "View": view}))
}

func (h *ViewHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		addFlash(c, "info", "Type something to search.")
		redirect(c, "/dashboard")
		return
	}
	view, err := h.queries.Search(c.Request.Context(), middleware.CurrentUser(c).ID, q)
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	render(c, http.StatusOK, "search.html", gin.H{"Title": "Search", "View": view})
}

func (h *ViewHandler) Analytics(c *gin.Context) {
	in, err := h.insights.Insights(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	render(c, http.StatusOK, "analytics.html", gin.H{"Title": "Analytics", "Insights": in})
}
