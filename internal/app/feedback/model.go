package feedback

import (
	"time"

	"feedbackboard/internal/app/board"
)

type Type string

const (
	TypeBug         Type = "bug"
	TypeImprovement Type = "improvement"
	TypeFeedback    Type = "feedback"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDeclined   Status = "declined"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusDeclined:
		return true
	}
	return false
}

func (t Type) Valid() bool {
	switch t {
	case TypeBug, TypeImprovement, TypeFeedback:
		return true
	}
	return false
}

type Feedback struct {
	ID             string       `json:"id" gorm:"type:uuid;primaryKey"`
	BoardID        string       `json:"board_id" gorm:"type:uuid;not null;index"`
	Board          *board.Board `json:"-" gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	Title          string       `json:"title" gorm:"not null"`
	Description    string       `json:"description" gorm:"type:text;not null"`
	Type           Type         `json:"type" gorm:"type:varchar(20);not null"`
	Status         Status       `json:"status" gorm:"type:varchar(20);not null;default:'open'"`
	SubmitterEmail *string      `json:"submitter_email,omitempty"`
	IsApproved     bool         `json:"is_approved" gorm:"not null;default:false;index"`
	VoteCount      int          `json:"vote_count" gorm:"not null;default:0;check:vote_count >= 0"`
	CommentCount   int          `json:"comment_count" gorm:"not null;default:0;check:comment_count >= 0"`
	CreatedAt      time.Time    `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// Public returns a copy without the submitter's email.
func (f *Feedback) Public() *Feedback {
	cp := *f
	cp.SubmitterEmail = nil
	return &cp
}

func publicList(items []*Feedback) []*Feedback {
	out := make([]*Feedback, len(items))
	for i, f := range items {
		out[i] = f.Public()
	}
	return out
}

// eventPayload hides the submitter from events every board visitor receives.
func eventPayload(f *Feedback) *Feedback {
	if f.IsApproved {
		return f.Public()
	}
	return f
}

// SubmitInput is the body of the public submission endpoint.
type SubmitInput struct {
	BoardSlug   string `json:"board_slug" validate:"required"`
	Title       string `json:"title" validate:"required,min=5"`
	Description string `json:"description" validate:"required,min=10"`
	Type        Type   `json:"type" validate:"required,oneof=bug improvement feedback"`
	UserEmail   string `json:"user_email" validate:"omitempty,email"`
}

type SubmitResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Feedback *Feedback `json:"feedback"`
}

type StatusInput struct {
	Status Status `json:"status" validate:"required"`
}

type Sort string

const (
	SortRecent Sort = "recent"
	SortVotes  Sort = "votes"
)

type ApprovalFilter string

const (
	FilterAll      ApprovalFilter = "all"
	FilterPending  ApprovalFilter = "pending"
	FilterApproved ApprovalFilter = "approved"
)

// ListQuery selects feedback of one board. An empty Type matches every
// type.
type ListQuery struct {
	BoardID  string
	Type     Type
	Approval ApprovalFilter
	Sort     Sort
}

type ListResponse struct {
	Feedback []*Feedback `json:"feedback"`
}
