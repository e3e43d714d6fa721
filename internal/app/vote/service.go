package vote

import (
	"context"

	"feedbackboard/internal/app/authz"
	"feedbackboard/internal/app/feedback"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/providers/redis"
	"feedbackboard/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	ToggleVote(ctx context.Context, id identity.Identity, feedbackID string) (*ToggleResult, error)
	HasVoted(ctx context.Context, id identity.Identity, feedbackID string) (bool, error)
	// VotedMap reports, for each id, whether the caller voted on it.
	// Anonymous callers get false everywhere.
	VotedMap(ctx context.Context, id identity.Identity, feedbackIDs []string) (map[string]bool, error)
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

func (s *service) ToggleVote(ctx context.Context, id identity.Identity, feedbackID string) (*ToggleResult, error) {
	if id.IsAnonymous() {
		return nil, apperr.Unauthenticated("sign in to vote")
	}
	chain, err := s.gate.InteractableFeedback(ctx, id, feedbackID)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.Toggle(ctx, chain.FeedbackID, id.Email())
	if err != nil {
		s.logger.Errorw("Failed to toggle vote", "feedback_id", chain.FeedbackID, "error", err)
		return nil, err
	}

	feedback.InvalidateBoardCache(ctx, s.redisP, chain.BoardID)
	s.eventBus.Publish(utils.Event{
		Event:     "vote_toggled",
		BoardSlug: chain.BoardSlug,
		Data: map[string]interface{}{
			"feedback_id": chain.FeedbackID,
			"vote_count":  result.VoteCount,
		},
	})
	s.logger.Debugw("Vote toggled",
		"feedback_id", chain.FeedbackID,
		"voter", id.Email(),
		"has_voted", result.HasVoted,
		"vote_count", result.VoteCount,
	)
	return result, nil
}

func (s *service) HasVoted(ctx context.Context, id identity.Identity, feedbackID string) (bool, error) {
	chain, err := s.gate.VisibleFeedback(ctx, id, feedbackID)
	if err != nil {
		return false, err
	}
	if id.IsAnonymous() {
		return false, nil
	}
	return s.repo.Exists(ctx, chain.FeedbackID, id.Email())
}

func (s *service) VotedMap(ctx context.Context, id identity.Identity, feedbackIDs []string) (map[string]bool, error) {
	voted := make(map[string]bool, len(feedbackIDs))
	valid := make([]string, 0, len(feedbackIDs))
	for _, fid := range feedbackIDs {
		voted[fid] = false
		if authz.ValidID(fid) {
			valid = append(valid, fid)
		}
	}
	if id.IsAnonymous() || len(valid) == 0 {
		return voted, nil
	}

	ids, err := s.repo.VotedFeedbackIDs(ctx, id.Email(), valid)
	if err != nil {
		return nil, err
	}
	for _, fid := range ids {
		voted[fid] = true
	}
	return voted, nil
}
