package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID   `json:"id" gorm:"primaryKey;type:char(36)"`
	Email          string      `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name           string      `json:"name" gorm:"size:120;not null"`
	PasswordHash   string      `json:"-" gorm:"size:255;not null"`
	AccountKind    AccountKind `json:"account_kind" gorm:"size:20;not null;default:standard"`
	OnboardingDone bool        `json:"onboarding_done" gorm:"not null;default:false"`
	CreatedAt      time.Time   `json:"created_at"`

	Projects []Project `json:"projects,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	return assignID(&u.ID)
}

func (u *User) IsCreator() bool {
	return u.AccountKind == AccountCreator
}

// Session backs a signed session cookie. Deleting the row revokes the cookie.
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:char(36)"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	return assignID(&s.ID)
}

func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}
	v, err := uuid.NewV4()
	if err != nil {
		return err
	}
	*id = v
	return nil
}
