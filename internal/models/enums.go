package models

import "strings"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch st := TaskStatus(strings.TrimSpace(s)); st {
	case StatusTodo, StatusInProgress, StatusDone:
		return st, true
	}
	return "", false
}

func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.TrimSpace(s)); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	}
	return "", false
}

// Rank orders priorities low < medium < high. Unknown values sort lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

type TaskType string

const (
	TaskGeneral TaskType = "general"
	TaskContent TaskType = "content"
)

func ParseTaskType(s string) (TaskType, bool) {
	switch t := TaskType(strings.TrimSpace(s)); t {
	case TaskGeneral, TaskContent:
		return t, true
	}
	return "", false
}

// CreatorStage is the production stage of a content task. The zero value
// means no stage and is shown as "none".
type CreatorStage string

const (
	StageNone      CreatorStage = ""
	StageIdea      CreatorStage = "idea"
	StageToFilm    CreatorStage = "to_film"
	StageToEdit    CreatorStage = "to_edit"
	StageScheduled CreatorStage = "scheduled"
	StagePublished CreatorStage = "published"
)

// Stages lists the pipeline columns in display order, "none" last.
var Stages = []CreatorStage{StageIdea, StageToFilm, StageToEdit, StageScheduled, StagePublished, StageNone}

// ParseCreatorStage accepts the five named stages plus "none".
func ParseCreatorStage(s string) (CreatorStage, bool) {
	switch st := CreatorStage(strings.TrimSpace(s)); st {
	case StageIdea, StageToFilm, StageToEdit, StageScheduled, StagePublished:
		return st, true
	case "none":
		return StageNone, true
	}
	return "", false
}

// Normalize folds anything outside the enumeration into StageNone.
func (s CreatorStage) Normalize() CreatorStage {
	if st, ok := ParseCreatorStage(string(s)); ok {
		return st
	}
	return StageNone
}

// Key is the bucket name used in views and URLs.
func (s CreatorStage) Key() string {
	if s = s.Normalize(); s == StageNone {
		return "none"
	}
	return string(s)
}

func (s CreatorStage) Label() string {
	switch s.Normalize() {
	case StageIdea:
		return "Idea"
	case StageToFilm:
		return "To film"
	case StageToEdit:
		return "To edit"
	case StageScheduled:
		return "Scheduled"
	case StagePublished:
		return "Published"
	}
	return "No stage"
}

type AccountKind string

const (
	AccountStandard AccountKind = "standard"
	AccountCreator  AccountKind = "creator"
)

// ParseAccountKind maps onboarding choices. "simple" is an alias of standard.
func ParseAccountKind(s string) (AccountKind, bool) {
	switch strings.TrimSpace(s) {
	case "standard", "simple":
		return AccountStandard, true
	case "creator":
		return AccountCreator, true
	}
	return "", false
}
