package vote

import (
	"time"

	"feedbackboard/internal/app/feedback"
)

// Vote is one ledger entry. At most one row exists per
// (feedback_id, voter_email).
type Vote struct {
	ID         string             `json:"id" gorm:"type:uuid;primaryKey"`
	FeedbackID string             `json:"feedback_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_feedback_voter"`
	Feedback   *feedback.Feedback `json:"-" gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE"`
	VoterEmail string             `json:"voter_email" gorm:"not null;uniqueIndex:idx_votes_feedback_voter"`
	CreatedAt  time.Time          `json:"created_at"`
}

type ToggleResult struct {
	HasVoted  bool `json:"has_voted"`
	VoteCount int  `json:"vote_count"`
}

type LookupRequest struct {
	FeedbackIDs []string `json:"feedback_ids" validate:"required,max=200"`
}

type LookupResponse struct {
	Voted map[string]bool `json:"voted"`
}
