package feedback

import (
	"context"
	"strings"
	"time"

	"feedbackboard/internal/app/authz"
	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/providers/redis"
	"feedbackboard/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// Submit is open to anonymous callers. The returned bool is the
	// board's requires_approval flag.
	Submit(ctx context.Context, in SubmitInput) (*Feedback, bool, error)
	Approve(ctx context.Context, ownerID, feedbackID string) (*Feedback, error)
	SetStatus(ctx context.Context, ownerID, feedbackID string, status Status) (*Feedback, error)
	Delete(ctx context.Context, ownerID, feedbackID string) error
	ListPublic(ctx context.Context, boardID string, typeFilter Type, sort Sort) ([]*Feedback, error)
	ListForOwner(ctx context.Context, ownerID, boardID string, filter ApprovalFilter) ([]*Feedback, error)
	Get(ctx context.Context, id identity.Identity, feedbackID string) (*Feedback, error)
}

type service struct {
	repo     Repository
	boards   board.Repository
	gate     *authz.Gate
	redisP   *redis.RedisProvider
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewService(
	repo Repository,
	boards board.Repository,
	gate *authz.Gate,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		boards:   boards,
		gate:     gate,
		redisP:   redisP,
		eventBus: eventBus,
		logger:   logger.Sugar(),
	}
}

func (s *service) Submit(ctx context.Context, in SubmitInput) (*Feedback, bool, error) {
	in.BoardSlug = strings.TrimSpace(in.BoardSlug)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.UserEmail = identity.NormalizeEmail(in.UserEmail)
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, false, err
	}

	b, err := s.boards.GetBySlug(ctx, in.BoardSlug)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	f := &Feedback{
		ID:          uuid.NewString(),
		BoardID:     b.ID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Status:      StatusOpen,
		IsApproved:  !b.RequiresApproval,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.UserEmail != "" {
		f.SubmitterEmail = &in.UserEmail
	}
	if err := s.repo.Create(ctx, f); err != nil {
		s.logger.Errorw("Failed to submit feedback", "board_id", b.ID, "error", err)
		return nil, false, err
	}

	if f.IsApproved {
		InvalidateBoardCache(ctx, s.redisP, b.ID)
	}
	s.eventBus.Publish(utils.Event{
		Event:     "feedback_submitted",
		BoardSlug: b.Slug,
		Data:      eventPayload(f),
		OwnerOnly: !f.IsApproved,
	})
	s.logger.Infow("Feedback submitted",
		"feedback_id", f.ID,
		"board_id", b.ID,
		"type", f.Type,
		"is_approved", f.IsApproved,
	)
	return f, b.RequiresApproval, nil
}

// ownedChain resolves the feedback and checks that ownerID owns its board.
func (s *service) ownedChain(ctx context.Context, ownerID, feedbackID string) (*authz.FeedbackChain, error) {
	chain, err := s.gate.ResolveFeedbackOwnerChain(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if chain.OwnerID != ownerID {
		return nil, apperr.Forbidden("only the board owner can do this")
	}
	return chain, nil
}

func (s *service) Approve(ctx context.Context, ownerID, feedbackID string) (*Feedback, error) {
	chain, err := s.ownedChain(ctx, ownerID, feedbackID)
	if err != nil {
		return nil, err
	}
	changed, err := s.repo.Approve(ctx, chain.FeedbackID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	f, err := s.repo.GetByID(ctx, chain.FeedbackID)
	if err != nil {
		return nil, err
	}
	if changed {
		InvalidateBoardCache(ctx, s.redisP, chain.BoardID)
		s.eventBus.Publish(utils.Event{Event: "feedback_updated", BoardSlug: chain.BoardSlug, Data: eventPayload(f)})
		s.logger.Infow("Feedback approved", "feedback_id", f.ID, "board_id", chain.BoardID)
	}
	return f, nil
}

func (s *service) SetStatus(ctx context.Context, ownerID, feedbackID string, status Status) (*Feedback, error) {
	if !status.Valid() {
		return nil, apperr.Validation("invalid status", apperr.FieldError{
			Field:   "status",
			Message: "status must be one of: open in_progress completed declined",
		})
	}
	chain, err := s.ownedChain(ctx, ownerID, feedbackID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetStatus(ctx, chain.FeedbackID, status, time.Now().UTC()); err != nil {
		return nil, err
	}
	f, err := s.repo.GetByID(ctx, chain.FeedbackID)
	if err != nil {
		return nil, err
	}

	if f.IsApproved {
		InvalidateBoardCache(ctx, s.redisP, chain.BoardID)
	}
	s.eventBus.Publish(utils.Event{
		Event:     "feedback_updated",
		BoardSlug: chain.BoardSlug,
		Data:      eventPayload(f),
		OwnerOnly: !f.IsApproved,
	})
	s.logger.Infow("Feedback status changed", "feedback_id", f.ID, "status", status)
	return f, nil
}

func (s *service) Delete(ctx context.Context, ownerID, feedbackID string) error {
	chain, err := s.ownedChain(ctx, ownerID, feedbackID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, chain.FeedbackID); err != nil {
		s.logger.Errorw("Failed to delete feedback", "feedback_id", chain.FeedbackID, "error", err)
		return err
	}

	InvalidateBoardCache(ctx, s.redisP, chain.BoardID)
	s.eventBus.Publish(utils.Event{
		Event:     "feedback_deleted",
		BoardSlug: chain.BoardSlug,
		Data:      map[string]interface{}{"feedback_id": chain.FeedbackID},
		OwnerOnly: !chain.IsApproved,
	})
	s.logger.Infow("Feedback deleted", "feedback_id", chain.FeedbackID, "board_id", chain.BoardID)
	return nil
}

func normalizeSort(sort Sort) (Sort, error) {
	switch sort {
	case "":
		return SortRecent, nil
	case SortRecent, SortVotes:
		return sort, nil
	}
	return "", apperr.Validation("invalid sort", apperr.FieldError{
		Field:   "sort",
		Message: "sort must be one of: recent votes",
	})
}

func (s *service) ListPublic(ctx context.Context, boardID string, typeFilter Type, sort Sort) ([]*Feedback, error) {
	sort, err := normalizeSort(sort)
	if err != nil {
		return nil, err
	}
	if typeFilter != "" && !typeFilter.Valid() {
		return nil, apperr.Validation("invalid type", apperr.FieldError{
			Field:   "type",
			Message: "type must be one of: bug improvement feedback",
		})
	}

	key := publicListKey(boardID, typeFilter, sort)
	var cached []*Feedback
	if s.redisP.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	items, err := s.repo.List(ctx, ListQuery{
		BoardID:  boardID,
		Type:     typeFilter,
		Approval: FilterApproved,
		Sort:     sort,
	})
	if err != nil {
		return nil, err
	}
	items = publicList(items)
	s.redisP.SetJSON(ctx, key, items, 0)
	return items, nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID, boardID string, filter ApprovalFilter) ([]*Feedback, error) {
	switch filter {
	case "":
		filter = FilterAll
	case FilterAll, FilterPending, FilterApproved:
	default:
		return nil, apperr.Validation("invalid filter", apperr.FieldError{
			Field:   "filter",
			Message: "filter must be one of: all pending approved",
		})
	}

	ref, err := s.gate.ResolveBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if ref.OwnerID != ownerID {
		return nil, apperr.Forbidden("only the board owner can do this")
	}
	return s.repo.List(ctx, ListQuery{BoardID: ref.BoardID, Approval: filter, Sort: SortRecent})
}

func (s *service) Get(ctx context.Context, id identity.Identity, feedbackID string) (*Feedback, error) {
	chain, err := s.gate.VisibleFeedback(ctx, id, feedbackID)
	if err != nil {
		return nil, err
	}
	f, err := s.repo.GetByID(ctx, chain.FeedbackID)
	if err != nil {
		return nil, err
	}
	owner, err := s.gate.CanMutateFeedback(ctx, id, chain)
	if err != nil {
		return nil, err
	}
	if !owner {
		return f.Public(), nil
	}
	return f, nil
}
