package session

import (
	"time"

	"feedbackboard/internal/app/customer"
)

type Session struct {
	ID         string     `json:"id" gorm:"type:uuid;primaryKey"`
	SessionKey string     `json:"-" gorm:"uniqueIndex;not null"`
	Email      string     `json:"email" gorm:"index;not null"`
	UserAgent  *string    `json:"-" gorm:"type:text"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null"`
	EndedAt    *time.Time `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (s *Session) Active(now time.Time) bool {
	return s.EndedAt == nil && now.Before(s.ExpiresAt)
}

type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type SessionResponse struct {
	SessionKey string    `json:"session_key"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type MeResponse struct {
	Anonymous bool               `json:"anonymous"`
	Email     string             `json:"email,omitempty"`
	Customer  *customer.Customer `json:"customer,omitempty"`
}
