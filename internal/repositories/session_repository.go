package repositories

import (
	"context"
	"time"

	"taskflow/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindActive(ctx context.Context, id uuid.UUID, now time.Time) (*models.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	session.ExpiresAt = session.ExpiresAt.UTC()
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) FindActive(ctx context.Context, id uuid.UUID, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, now.UTC()).
		First(&session).Error
	if err != nil {
		return nil, notFound("find session", err)
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
