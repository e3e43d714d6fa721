package authz

import (
	"context"

	"feedbackboard/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	BoardRef(ctx context.Context, boardID string) (*BoardRef, error)
	FeedbackOwnerChain(ctx context.Context, feedbackID string) (*FeedbackChain, error)
	CommentOwnerChain(ctx context.Context, commentID string) (*CommentChain, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BoardRef(ctx context.Context, boardID string) (*BoardRef, error) {
	var ref BoardRef
	err := r.db.WithContext(ctx).Table("boards").
		Select("boards.id AS board_id, boards.slug, boards.owner_id, boards.is_public").
		Where("boards.id = ?", boardID).
		Take(&ref).Error
	if err != nil {
		return nil, apperr.FromDB(err, "board not found")
	}
	return &ref, nil
}

func (r *repository) FeedbackOwnerChain(ctx context.Context, feedbackID string) (*FeedbackChain, error) {
	var chain FeedbackChain
	err := r.db.WithContext(ctx).Table("feedback").
		Select(`
			feedback.id AS feedback_id,
			feedback.is_approved,
			boards.id AS board_id,
			boards.slug AS board_slug,
			boards.is_public AS board_is_public,
			boards.owner_id
		`).
		Joins("JOIN boards ON boards.id = feedback.board_id").
		Where("feedback.id = ?", feedbackID).
		Take(&chain).Error
	if err != nil {
		return nil, apperr.FromDB(err, "feedback not found")
	}
	return &chain, nil
}

func (r *repository) CommentOwnerChain(ctx context.Context, commentID string) (*CommentChain, error) {
	var chain CommentChain
	err := r.db.WithContext(ctx).Table("comments").
		Select(`
			comments.id AS comment_id,
			comments.author_email,
			feedback.id AS feedback_id,
			feedback.is_approved AS feedback_is_approved,
			boards.id AS board_id,
			boards.slug AS board_slug,
			boards.is_public AS board_is_public,
			boards.owner_id
		`).
		Joins("JOIN feedback ON feedback.id = comments.feedback_id").
		Joins("JOIN boards ON boards.id = feedback.board_id").
		Where("comments.id = ?", commentID).
		Take(&chain).Error
	if err != nil {
		return nil, apperr.FromDB(err, "comment not found")
	}
	return &chain, nil
}
