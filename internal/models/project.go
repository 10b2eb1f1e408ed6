package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:char(36)"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:char(36);index;not null"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	return assignID(&p.ID)
}
