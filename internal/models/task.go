package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Task timestamps are set by the service layer from its clock, so gorm's
// automatic tracking is disabled.
type Task struct {
	ID           uuid.UUID    `json:"id" gorm:"primaryKey;type:char(36)"`
	ProjectID    uuid.UUID    `json:"project_id" gorm:"type:char(36);index;not null"`
	Title        string       `json:"title" gorm:"size:200;not null"`
	Description  string       `json:"description"`
	Status       TaskStatus   `json:"status" gorm:"size:20;not null;default:todo;index"`
	Priority     Priority     `json:"priority" gorm:"size:10;not null;default:medium"`
	TaskType     TaskType     `json:"task_type" gorm:"size:20;not null;default:general"`
	Platform     string       `json:"platform" gorm:"size:50"`
	CreatorStage CreatorStage `json:"creator_stage" gorm:"size:20"`
	DueDate      *time.Time   `json:"due_date" gorm:"index"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"autoUpdateTime:false;index"`

	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	return assignID(&t.ID)
}

func (t *Task) IsOpen() bool {
	return t.Status != StatusDone
}

func (t *Task) IsContent() bool {
	return t.TaskType == TaskContent
}

// Stage returns the creator stage folded into the six display buckets.
func (t *Task) Stage() CreatorStage {
	return t.CreatorStage.Normalize()
}
