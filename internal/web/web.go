// Package web holds the HTML templates rendered by the handlers.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var Files embed.FS

// Templates parses every page with helpers that show dates in loc.
func Templates(loc *time.Location) (*template.Template, error) {
	if loc == nil {
		loc = time.UTC
	}
	funcs := template.FuncMap{
		"isoDate":   func(v interface{}) string { return formatTime(v, loc, "2006-01-02") },
		"shortDate": func(v interface{}) string { return formatTime(v, loc, "Mon 02 Jan") },
		"longDate":  func(v interface{}) string { return formatTime(v, loc, "Monday 2 January 2006") },
		"dateTime":  func(v interface{}) string { return formatTime(v, loc, "02 Jan 2006 15:04") },
		"heatLevel": heatLevel,
		"add":       func(a, b int) int { return a + b },
		"pad2":      func(n int) string { return fmt.Sprintf("%02d", n) },
	}
	return template.New("taskflow").Funcs(funcs).ParseFS(Files, "templates/*.html")
}

func formatTime(v interface{}, loc *time.Location, layout string) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.In(loc).Format(layout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.In(loc).Format(layout)
	}
	return ""
}

// heatLevel buckets a daily count into the five heatmap shades.
func heatLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	case count <= 5:
		return 3
	}
	return 4
}
