package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"feedbackboard/internal/app/authz"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/providers/redis"
	"feedbackboard/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateBoard(ctx context.Context, ownerID string, in CreateBoardInput) (*Board, error)
	UpdateBoard(ctx context.Context, ownerID, boardID string, in UpdateBoardInput) (*UpdateResult, error)
	DeleteBoard(ctx context.Context, ownerID, boardID string) error
	// GetBoardBySlug enforces ownership when requesterID is set and
	// otherwise only returns public boards.
	GetBoardBySlug(ctx context.Context, slug string, requesterID *string) (*Board, error)
	GetVisibleBoard(ctx context.Context, id identity.Identity, slug string) (*Board, error)
	ListBoards(ctx context.Context, ownerID string) ([]*Board, error)
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

func slugCacheKey(slug string) string {
	return fmt.Sprintf("board:slug:%s", slug)
}

func (s *service) CreateBoard(ctx context.Context, ownerID string, in CreateBoardInput) (*Board, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}

	taken, err := s.repo.SlugTaken(ctx, in.Slug, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("slug is already taken")
	}

	now := time.Now().UTC()
	b := &Board{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		Name:             in.Name,
		Description:      trimmedOrNil(in.Description),
		Slug:             in.Slug,
		IsPublic:         boolOr(in.IsPublic, false),
		RequiresApproval: boolOr(in.RequiresApproval, true),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("slug is already taken")
		}
		s.logger.Errorw("Failed to create board", "owner_id", ownerID, "slug", in.Slug, "error", err)
		return nil, err
	}

	s.logger.Infow("Board created", "board_id", b.ID, "slug", b.Slug, "owner_id", ownerID)
	return b, nil
}

func (s *service) ownedBoard(ctx context.Context, ownerID, boardID string) (*Board, error) {
	if !authz.ValidID(boardID) {
		return nil, apperr.NotFound("board not found")
	}
	b, err := s.repo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, apperr.Forbidden("you do not own this board")
	}
	return b, nil
}

func (s *service) UpdateBoard(ctx context.Context, ownerID, boardID string, in UpdateBoardInput) (*UpdateResult, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if in.Slug != nil {
		trimmed := strings.TrimSpace(*in.Slug)
		in.Slug = &trimmed
	}
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}

	b, err := s.ownedBoard(ctx, ownerID, boardID)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Board: b}
	if in.Slug != nil && *in.Slug != b.Slug {
		taken, err := s.repo.SlugTaken(ctx, *in.Slug, b.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("slug is already taken")
		}
		result.PreviousSlug = b.Slug
		b.Slug = *in.Slug
	}
	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Description != nil {
		b.Description = trimmedOrNil(in.Description)
	}
	if in.IsPublic != nil {
		b.IsPublic = *in.IsPublic
	}
	if in.RequiresApproval != nil {
		b.RequiresApproval = *in.RequiresApproval
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("slug is already taken")
		}
		return nil, err
	}

	s.redisP.Del(ctx, slugCacheKey(b.Slug))
	if result.PreviousSlug != "" {
		s.redisP.Del(ctx, slugCacheKey(result.PreviousSlug))
	}

	s.eventBus.Publish(utils.Event{
		Event:     "board_updated",
		BoardSlug: boardEventSlug(result),
		Data: map[string]interface{}{
			"board_id":      b.ID,
			"slug":          b.Slug,
			"previous_slug": result.PreviousSlug,
			"is_public":     b.IsPublic,
		},
	})
	s.logger.Infow("Board updated", "board_id", b.ID, "slug", b.Slug, "previous_slug", result.PreviousSlug)
	return result, nil
}

// Subscribers are keyed by the slug they connected with, so a rename is
// announced on the old slug.
func boardEventSlug(r *UpdateResult) string {
	if r.PreviousSlug != "" {
		return r.PreviousSlug
	}
	return r.Board.Slug
}

func (s *service) DeleteBoard(ctx context.Context, ownerID, boardID string) error {
	b, err := s.ownedBoard(ctx, ownerID, boardID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, b.ID); err != nil {
		s.logger.Errorw("Failed to delete board", "board_id", b.ID, "error", err)
		return err
	}

	s.redisP.Del(ctx, slugCacheKey(b.Slug))
	s.redisP.DeletePattern(ctx, fmt.Sprintf("feedback:board:%s:*", b.ID))

	s.eventBus.Publish(utils.Event{
		Event:     "board_deleted",
		BoardSlug: b.Slug,
		Data:      map[string]interface{}{"board_id": b.ID},
	})
	s.logger.Infow("Board deleted", "board_id", b.ID, "slug", b.Slug)
	return nil
}

func (s *service) bySlug(ctx context.Context, slug string) (*Board, error) {
	var cached Board
	if s.redisP.GetJSON(ctx, slugCacheKey(slug), &cached) {
		return &cached, nil
	}
	b, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.redisP.SetJSON(ctx, slugCacheKey(slug), b, 0)
	return b, nil
}

func (s *service) GetBoardBySlug(ctx context.Context, slug string, requesterID *string) (*Board, error) {
	b, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if requesterID != nil {
		if b.OwnerID != *requesterID {
			return nil, apperr.Forbidden("you do not own this board")
		}
		return b, nil
	}
	if !b.IsPublic {
		return nil, apperr.NotFound("board not found")
	}
	return b, nil
}

func (s *service) GetVisibleBoard(ctx context.Context, id identity.Identity, slug string) (*Board, error) {
	b, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	ok, err := s.gate.CanViewBoard(ctx, id, &authz.BoardRef{
		BoardID:  b.ID,
		Slug:     b.Slug,
		OwnerID:  b.OwnerID,
		IsPublic: b.IsPublic,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("board not found")
	}
	return b, nil
}

func (s *service) ListBoards(ctx context.Context, ownerID string) ([]*Board, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
