package comment

import (
	"context"
	"strings"
	"time"

	"feedbackboard/internal/app/authz"
	"feedbackboard/internal/app/feedback"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/providers/redis"
	"feedbackboard/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, id identity.Identity, feedbackID, content string) (*Comment, error)
	Update(ctx context.Context, id identity.Identity, commentID, content string) (*Comment, error)
	Delete(ctx context.Context, id identity.Identity, commentID string) error
	// MarkOfficial sets is_official to the given value; it is not a flip.
	MarkOfficial(ctx context.Context, id identity.Identity, commentID string, isOfficial bool) (*Comment, error)
	List(ctx context.Context, id identity.Identity, feedbackID string) ([]*Comment, error)
	Count(ctx context.Context, id identity.Identity, feedbackID string) (int, error)
}

type service struct {
	repo     Repository
	gate     *authz.Gate
	redisP   *redis.RedisProvider
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewService(
	repo Repository,
	gate *authz.Gate,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		gate:     gate,
		redisP:   redisP,
		eventBus: eventBus,
		logger:   logger.Sugar(),
	}
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if err := apperr.ValidateStruct(ContentInput{Content: content}); err != nil {
		return "", err
	}
	return content, nil
}

// denied picks the error for a caller lacking rights on chain: NOT_FOUND
// when the feedback is hidden from them, FORBIDDEN otherwise.
func (s *service) denied(ctx context.Context, id identity.Identity, chain *authz.CommentChain, msg string) error {
	visible, err := s.gate.CanViewFeedback(ctx, id, chain.Feedback())
	if err != nil {
		return err
	}
	if !visible {
		return apperr.NotFound("comment not found")
	}
	return apperr.Forbidden(msg)
}

func (s *service) Create(ctx context.Context, id identity.Identity, feedbackID, content string) (*Comment, error) {
	if id.IsAnonymous() {
		return nil, apperr.Unauthenticated("sign in to comment")
	}
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	chain, err := s.gate.InteractableFeedback(ctx, id, feedbackID)
	if err != nil {
		return nil, err
	}

	c := &Comment{
		ID:          uuid.NewString(),
		FeedbackID:  chain.FeedbackID,
		AuthorEmail: id.Email(),
		Content:     content,
		IsOfficial:  false,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Errorw("Failed to create comment", "feedback_id", chain.FeedbackID, "error", err)
		return nil, err
	}

	feedback.InvalidateBoardCache(ctx, s.redisP, chain.BoardID)
	s.eventBus.Publish(utils.Event{Event: "comment_created", BoardSlug: chain.BoardSlug, Data: c})
	s.logger.Infow("Comment created", "comment_id", c.ID, "feedback_id", c.FeedbackID)
	return c, nil
}

func (s *service) Update(ctx context.Context, id identity.Identity, commentID, content string) (*Comment, error) {
	if id.IsAnonymous() {
		return nil, apperr.Unauthenticated("sign in to edit comments")
	}
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	chain, err := s.gate.ResolveCommentOwnerChain(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !s.gate.CanEditComment(id, chain) {
		return nil, s.denied(ctx, id, chain, "you can only edit your own comments")
	}

	if err := s.repo.UpdateContent(ctx, chain.CommentID, content, time.Now().UTC()); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, chain.CommentID)
	if err != nil {
		return nil, err
	}
	s.eventBus.Publish(utils.Event{
		Event:     "comment_updated",
		BoardSlug: chain.BoardSlug,
		Data:      c,
		OwnerOnly: !chain.FeedbackIsApproved,
	})
	return c, nil
}

func (s *service) Delete(ctx context.Context, id identity.Identity, commentID string) error {
	if id.IsAnonymous() {
		return apperr.Unauthenticated("sign in to delete comments")
	}
	chain, err := s.gate.ResolveCommentOwnerChain(ctx, commentID)
	if err != nil {
		return err
	}
	ok, err := s.gate.CanDeleteComment(ctx, id, chain)
	if err != nil {
		return err
	}
	if !ok {
		return s.denied(ctx, id, chain, "you can only delete your own comments")
	}

	if err := s.repo.Delete(ctx, chain.CommentID); err != nil {
		s.logger.Errorw("Failed to delete comment", "comment_id", chain.CommentID, "error", err)
		return err
	}

	feedback.InvalidateBoardCache(ctx, s.redisP, chain.BoardID)
	s.eventBus.Publish(utils.Event{
		Event:     "comment_deleted",
		BoardSlug: chain.BoardSlug,
		Data: map[string]interface{}{
			"comment_id":  chain.CommentID,
			"feedback_id": chain.FeedbackID,
		},
		OwnerOnly: !chain.FeedbackIsApproved,
	})
	s.logger.Infow("Comment deleted", "comment_id", chain.CommentID, "by", id.Email())
	return nil
}

func (s *service) MarkOfficial(ctx context.Context, id identity.Identity, commentID string, isOfficial bool) (*Comment, error) {
	if id.IsAnonymous() {
		return nil, apperr.Unauthenticated("you must be signed in")
	}
	chain, err := s.gate.ResolveCommentOwnerChain(ctx, commentID)
	if err != nil {
		return nil, err
	}
	owner, err := s.gate.IsOwnerOf(ctx, id, chain.OwnerID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, s.denied(ctx, id, chain, "only the board owner can mark official responses")
	}

	if err := s.repo.SetOfficial(ctx, chain.CommentID, isOfficial); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, chain.CommentID)
	if err != nil {
		return nil, err
	}
	s.eventBus.Publish(utils.Event{
		Event:     "comment_updated",
		BoardSlug: chain.BoardSlug,
		Data:      c,
		OwnerOnly: !chain.FeedbackIsApproved,
	})
	return c, nil
}

func (s *service) List(ctx context.Context, id identity.Identity, feedbackID string) ([]*Comment, error) {
	chain, err := s.gate.VisibleFeedback(ctx, id, feedbackID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByFeedback(ctx, chain.FeedbackID)
}

func (s *service) Count(ctx context.Context, id identity.Identity, feedbackID string) (int, error) {
	chain, err := s.gate.VisibleFeedback(ctx, id, feedbackID)
	if err != nil {
		return 0, err
	}
	return s.repo.CountByFeedback(ctx, chain.FeedbackID)
}
