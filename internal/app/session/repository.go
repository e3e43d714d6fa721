package session

import (
	"context"
	"time"

	"feedbackboard/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByKey(ctx context.Context, sessionKey string) (*Session, error)
	EndSession(ctx context.Context, sessionKey string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSession(ctx context.Context, session *Session) error {
	return apperr.FromDB(r.db.WithContext(ctx).Create(session).Error, "session not found")
}

func (r *repository) GetSessionByKey(ctx context.Context, sessionKey string) (*Session, error) {
	var session Session
	err := r.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&session).Error
	if err != nil {
		return nil, apperr.FromDB(err, "session not found")
	}
	return &session, nil
}

func (r *repository) EndSession(ctx context.Context, sessionKey string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&Session{}).
		Where("session_key = ? AND ended_at IS NULL", sessionKey).
		Update("ended_at", at).Error
	return apperr.FromDB(err, "session not found")
}
