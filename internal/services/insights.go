package services

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/clock"
	"taskflow/internal/models"
	"taskflow/internal/repositories"

	"github.com/gofrs/uuid"
)

const HeatmapDays = 365

const (
	TrendStartSmall = "start_small"
	TrendBoost      = "boost"
	TrendProgress   = "progress"
	TrendSlowdown   = "slowdown"
	TrendStable     = "stable"
)

type DayStat struct {
	Weekday int    `json:"weekday"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}

type HourStat struct {
	Hour     int `json:"hour"`
	NextHour int `json:"next_hour"`
	Count    int `json:"count"`
}

type Trend struct {
	Class    string `json:"class"`
	Current  int    `json:"current"`
	Previous int    `json:"previous"`
	// Delta is the signed percentage change, e.g. "+50%". Empty when the
	// previous month had nothing to compare against.
	Delta string `json:"delta"`
}

type HeatmapDay struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

type Insights struct {
	Today         time.Time    `json:"today"`
	DoneThisWeek  int          `json:"done_this_week"`
	DoneThisMonth int          `json:"done_this_month"`
	WeekGeneral   int          `json:"week_general"`
	WeekContent   int          `json:"week_content"`
	BestDay       *DayStat     `json:"best_day,omitempty"`
	BestHour      *HourStat    `json:"best_hour,omitempty"`
	Trend         Trend        `json:"trend"`
	Heatmap       []HeatmapDay `json:"heatmap"`

	ProductivityMessage string `json:"productivity_message"`
	TimingMessage       string `json:"timing_message"`
	TrendMessage        string `json:"trend_message"`
}

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// InsightWindowStart is the earliest update time the insight engine reads.
func InsightWindowStart(now time.Time) time.Time {
	return clock.StartOfDay(now).AddDate(0, 0, -HeatmapDays)
}

// ComputeInsights derives the analytics page from done tasks. Times are
// read in now's location.
func ComputeInsights(done []models.Task, now time.Time) *Insights {
	loc := now.Location()
	today := clock.StartOfDay(now)
	weekStart, monthStart := clock.WeekStart(now), clock.MonthStart(now)
	prevMonthStart, nextMonthStart := monthStart.AddDate(0, -1, 0), monthStart.AddDate(0, 1, 0)
	heatStart := today.AddDate(0, 0, -(HeatmapDays - 1))
	windowStart := InsightWindowStart(now)

	var days [7]int
	var hours [24]int
	perDay := make(map[string]int)
	var current, previous int
	in := &Insights{Today: today}

	for _, t := range done {
		if t.Status != models.StatusDone {
			continue
		}
		at := t.UpdatedAt.In(loc)

		if !at.Before(weekStart) {
			in.DoneThisWeek++
			if t.IsContent() {
				in.WeekContent++
			} else {
				in.WeekGeneral++
			}
		}
		if !at.Before(monthStart) {
			in.DoneThisMonth++
		}
		switch {
		case !at.Before(monthStart) && at.Before(nextMonthStart):
			current++
		case !at.Before(prevMonthStart) && at.Before(monthStart):
			previous++
		}

		if at.Before(windowStart) {
			continue
		}
		days[clock.WeekdayIndex(at)]++
		hours[at.Hour()]++
		if !at.Before(heatStart) {
			perDay[clock.FormatDate(at)]++
		}
	}

	if i, n := firstMax(days[:]); n > 0 {
		in.BestDay = &DayStat{Weekday: i, Name: weekdayNames[i], Count: n}
	}
	if h, n := firstMax(hours[:]); n > 0 {
		in.BestHour = &HourStat{Hour: h, NextHour: (h + 1) % 24, Count: n}
	}
	in.Trend = ClassifyTrend(current, previous)

	in.Heatmap = make([]HeatmapDay, HeatmapDays)
	for i := range in.Heatmap {
		day := heatStart.AddDate(0, 0, i)
		in.Heatmap[i] = HeatmapDay{Date: day, Count: perDay[clock.FormatDate(day)]}
	}

	in.ProductivityMessage = productivityMessage(in.BestDay)
	in.TimingMessage = timingMessage(in.BestHour)
	in.TrendMessage = trendMessage(in.Trend)
	return in
}

// firstMax returns the index and value of the largest count. Ties go to the
// lowest index.
func firstMax(counts []int) (int, int) {
	best, max := 0, 0
	for i, n := range counts {
		if n > max {
			best, max = i, n
		}
	}
	return best, max
}

func ClassifyTrend(current, previous int) Trend {
	tr := Trend{Current: current, Previous: previous}
	switch {
	case previous == 0 && current == 0:
		tr.Class = TrendStartSmall
	case previous == 0:
		tr.Class = TrendBoost
	case current == previous:
		tr.Class = TrendStable
	default:
		pct := float64(current-previous) / float64(previous) * 100
		tr.Delta = fmt.Sprintf("%+.0f%%", pct)
		tr.Class = TrendProgress
		if current < previous {
			tr.Class = TrendSlowdown
		}
	}
	return tr
}

func productivityMessage(best *DayStat) string {
	if best == nil {
		return "Not enough completed tasks yet to find your most productive day."
	}
	return fmt.Sprintf("You complete the most tasks on %s (%d completed in the last 12 months).", best.Name, best.Count)
}

func timingMessage(best *HourStat) string {
	if best == nil {
		return "No clear peak hour yet. Keep using TaskFlow and your best time slot will show up here."
	}
	return fmt.Sprintf("You are most active between %02dh and %02dh. A good slot for your important tasks.", best.Hour, best.NextHour)
}

func trendMessage(tr Trend) string {
	switch tr.Class {
	case TrendStartSmall:
		return "No tasks completed over the last two months. Start light with one or two small tasks a day."
	case TrendBoost:
		return fmt.Sprintf("You already completed %d task(s) this month, up from none last month. Big productivity boost!", tr.Current)
	case TrendProgress:
		return fmt.Sprintf("You completed %d task(s) this month against %d last month (%s). Keep it up!", tr.Current, tr.Previous, tr.Delta)
	case TrendSlowdown:
		return fmt.Sprintf("You completed %d task(s) this month against %d last month (%s). Try grouping important tasks on your best days.", tr.Current, tr.Previous, tr.Delta)
	}
	return fmt.Sprintf("You completed as many tasks this month (%d) as last month. Steady pace.", tr.Current)
}

type InsightProvider interface {
	Insights(ctx context.Context, userID uuid.UUID) (*Insights, error)
}

type InsightService struct {
	tasks repositories.TaskRepository
	clock clock.Clock
}

func NewInsightService(tasks repositories.TaskRepository, clk clock.Clock) *InsightService {
	return &InsightService{tasks: tasks, clock: clk}
}

func (s *InsightService) Insights(ctx context.Context, userID uuid.UUID) (*Insights, error) {
	now := s.clock.Now()
	from := InsightWindowStart(now)
	done, err := s.tasks.List(ctx, userID, repositories.TaskFilter{Status: models.StatusDone, UpdatedFrom: &from})
	if err != nil {
		return nil, fmt.Errorf("load done tasks: %w", err)
	}
	return ComputeInsights(done, now), nil
}
