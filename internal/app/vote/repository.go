package vote

import (
	"context"
	"time"

	"feedbackboard/internal/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Toggle inserts the vote when absent and deletes it when present,
	// then recounts vote_count, all in one transaction.
	Toggle(ctx context.Context, feedbackID, voterEmail string) (*ToggleResult, error)
	Exists(ctx context.Context, feedbackID, voterEmail string) (bool, error)
	VotedFeedbackIDs(ctx context.Context, voterEmail string, feedbackIDs []string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Toggle(ctx context.Context, feedbackID, voterEmail string) (*ToggleResult, error) {
	result := &ToggleResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Toggles on the same feedback serialize on this row lock.
		var locked struct{ ID string }
		if err := tx.Table("feedback").
			Select("id").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", feedbackID).
			Take(&locked).Error; err != nil {
			return err
		}

		res := tx.Where("feedback_id = ? AND voter_email = ?", feedbackID, voterEmail).Delete(&Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			v := &Vote{
				ID:         uuid.NewString(),
				FeedbackID: feedbackID,
				VoterEmail: voterEmail,
				CreatedAt:  time.Now().UTC(),
			}
			if err := tx.Create(v).Error; err != nil {
				return err
			}
			result.HasVoted = true
		}

		if err := tx.Exec(`
			UPDATE feedback
			SET vote_count = (SELECT COUNT(*) FROM votes WHERE feedback_id = ?)
			WHERE id = ?
		`, feedbackID, feedbackID).Error; err != nil {
			return err
		}
		return tx.Table("feedback").
			Select("vote_count").
			Where("id = ?", feedbackID).
			Scan(&result.VoteCount).Error
	})
	if err != nil {
		return nil, apperr.FromDB(err, "feedback not found")
	}
	return result, nil
}

func (r *repository) Exists(ctx context.Context, feedbackID, voterEmail string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Vote{}).
		Where("feedback_id = ? AND voter_email = ?", feedbackID, voterEmail).
		Count(&count).Error
	if err != nil {
		return false, apperr.FromDB(err, "vote not found")
	}
	return count > 0, nil
}

func (r *repository) VotedFeedbackIDs(ctx context.Context, voterEmail string, feedbackIDs []string) ([]string, error) {
	var ids []string
	if len(feedbackIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&Vote{}).
		Where("voter_email = ? AND feedback_id IN ?", voterEmail, feedbackIDs).
		Pluck("feedback_id", &ids).Error
	if err != nil {
		return nil, apperr.FromDB(err, "vote not found")
	}
	return ids, nil
}
