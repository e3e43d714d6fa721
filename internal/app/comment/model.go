package comment

import (
	"time"

	"feedbackboard/internal/app/feedback"
)

const MaxContentLength = 1000

type Comment struct {
	ID          string             `json:"id" gorm:"type:uuid;primaryKey"`
	FeedbackID  string             `json:"feedback_id" gorm:"type:uuid;not null;index"`
	Feedback    *feedback.Feedback `json:"-" gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE"`
	AuthorEmail string             `json:"author_email" gorm:"not null"`
	Content     string             `json:"content" gorm:"type:text;not null"`
	IsOfficial  bool               `json:"is_official" gorm:"not null;default:false"`
	EditedAt    *time.Time         `json:"edited_at"`
	CreatedAt   time.Time          `json:"created_at" gorm:"index"`
}

type ContentInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type OfficialInput struct {
	IsOfficial *bool `json:"is_official" validate:"required"`
}

type ListResponse struct {
	Comments []*Comment `json:"comments"`
	Count    int        `json:"count"`
}
