package comment

import (
	"context"
	"time"

	"feedbackboard/internal/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Create and Delete keep feedback.comment_count equal to the number of
	// comment rows in the same transaction.
	Create(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error
	SetOfficial(ctx context.Context, id string, official bool) error
	ListByFeedback(ctx context.Context, feedbackID string) ([]*Comment, error)
	CountByFeedback(ctx context.Context, feedbackID string) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func lockFeedback(tx *gorm.DB, feedbackID string) error {
	var locked struct{ ID string }
	return tx.Table("feedback").
		Select("id").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", feedbackID).
		Take(&locked).Error
}

func recount(tx *gorm.DB, feedbackID string) error {
	return tx.Exec(`
		UPDATE feedback
		SET comment_count = (SELECT COUNT(*) FROM comments WHERE feedback_id = ?)
		WHERE id = ?
	`, feedbackID, feedbackID).Error
}

func (r *repository) Create(ctx context.Context, c *Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockFeedback(tx, c.FeedbackID); err != nil {
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return recount(tx, c.FeedbackID)
	})
	return apperr.FromDB(err, "feedback not found")
}

func (r *repository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c Comment
		if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
			return err
		}
		if err := lockFeedback(tx, c.FeedbackID); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("comment not found")
		}
		return recount(tx, c.FeedbackID)
	})
	return apperr.FromDB(err, "comment not found")
}

func (r *repository) GetByID(ctx context.Context, id string) (*Comment, error) {
	var c Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, apperr.FromDB(err, "comment not found")
	}
	return &c, nil
}

func (r *repository) UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"content": content, "edited_at": editedAt})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "comment not found")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}

func (r *repository) SetOfficial(ctx context.Context, id string, official bool) error {
	res := r.db.WithContext(ctx).Model(&Comment{}).
		Where("id = ?", id).
		Update("is_official", official)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "comment not found")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}

func (r *repository) ListByFeedback(ctx context.Context, feedbackID string) ([]*Comment, error) {
	var comments []*Comment
	err := r.db.WithContext(ctx).
		Where("feedback_id = ?", feedbackID).
		Order("created_at ASC").
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, apperr.FromDB(err, "feedback not found")
	}
	return comments, nil
}

func (r *repository) CountByFeedback(ctx context.Context, feedbackID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Comment{}).
		Where("feedback_id = ?", feedbackID).
		Count(&count).Error
	if err != nil {
		return 0, apperr.FromDB(err, "feedback not found")
	}
	return int(count), nil
}
