package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_ParseAllPages(t *testing.T) {
	tmpl, err := Templates(time.UTC)
	require.NoError(t, err)

	for _, name := range []string{
		"landing.html", "login.html", "register.html", "onboarding.html",
		"dashboard.html", "today.html", "calendar.html", "search.html", "analytics.html",
		"creator_dashboard.html", "creator_pipeline.html", "creator_new_content.html",
		"project_new.html", "project_detail.html",
		"task_detail.html", "task_edit.html", "task_drawer.html",
		"profile.html", "password.html", "pricing.html", "error.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestFormatTime_UsesLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	utc := time.Date(2024, 5, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-16", formatTime(utc, paris, "2006-01-02"))
	assert.Equal(t, "2024-05-16", formatTime(&utc, paris, "2006-01-02"))

	var none *time.Time
	assert.Equal(t, "", formatTime(none, paris, "2006-01-02"))
	assert.Equal(t, "", formatTime("not a time", paris, "2006-01-02"))
}

func TestHeatLevel(t *testing.T) {
	assert.Equal(t, 0, heatLevel(0))
	assert.Equal(t, 1, heatLevel(1))
	assert.Equal(t, 2, heatLevel(3))
	assert.Equal(t, 3, heatLevel(5))
	assert.Equal(t, 4, heatLevel(12))
}

func TestErrorPage_Renders(t *testing.T) {
	tmpl, err := Templates(time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "error.html", map[string]interface{}{"Title": "Error"}))
	assert.Contains(t, buf.String(), "Something went wrong")
}
