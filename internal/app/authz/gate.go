// Package authz is the single source of truth for who may observe or
// mutate boards, feedback and comments.
//
// Ownership is always board scoped: an identity owns a board iff its email
// belongs to a customer whose id equals the board's owner_id. Resources a
// caller may not observe are reported as NOT_FOUND so their existence does
// not leak.
package authz

import (
	"context"

	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CustomerLookup interface {
	ForIdentity(ctx context.Context, id identity.Identity) (*customer.Customer, error)
}

type Gate struct {
	repo      Repository
	customers CustomerLookup
	logger    *zap.SugaredLogger
}

func NewGate(repo Repository, customers CustomerLookup, logger *zap.Logger) *Gate {
	return &Gate{repo: repo, customers: customers, logger: logger.Sugar()}
}

// ValidID reports whether id can address a row. Malformed ids are treated
// as missing rows by callers.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (g *Gate) CustomerFor(ctx context.Context, id identity.Identity) (*customer.Customer, error) {
	c, err := g.customers.ForIdentity(ctx, id)
	if err != nil {
		g.logger.Errorw("Customer lookup failed", "identity", id.String(), "error", err)
		return nil, apperr.Internal("failed to verify account", err)
	}
	return c, nil
}

// RequireCustomer is the entry check of owner-only surfaces: anonymous
// callers must sign in, identified non-customers are forbidden.
func (g *Gate) RequireCustomer(ctx context.Context, id identity.Identity) (*customer.Customer, error) {
	if id.IsAnonymous() {
		return nil, apperr.Unauthenticated("you must be signed in")
	}
	c, err := g.CustomerFor(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Forbidden("only board owners can do this")
	}
	return c, nil
}

func (g *Gate) isOwner(ctx context.Context, id identity.Identity, ownerID string) (bool, error) {
	if id.IsAnonymous() {
		return false, nil
	}
	c, err := g.CustomerFor(ctx, id)
	if err != nil || c == nil {
		return false, err
	}
	return c.ID == ownerID, nil
}

func (g *Gate) IsBoardOwner(ctx context.Context, id identity.Identity, boardID string) (bool, error) {
	ref, err := g.ResolveBoard(ctx, boardID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return g.isOwner(ctx, id, ref.OwnerID)
}

func (g *Gate) IsOwnerOf(ctx context.Context, id identity.Identity, ownerID string) (bool, error) {
	return g.isOwner(ctx, id, ownerID)
}

func (g *Gate) CanMutateFeedback(ctx context.Context, id identity.Identity, chain *FeedbackChain) (bool, error) {
	return g.isOwner(ctx, id, chain.OwnerID)
}

// CanEditComment covers content edits: authors only, board owners
// included only when they wrote the comment.
func (g *Gate) CanEditComment(id identity.Identity, chain *CommentChain) bool {
	return !id.IsAnonymous() && id.Email() == identity.NormalizeEmail(chain.AuthorEmail)
}

func (g *Gate) CanDeleteComment(ctx context.Context, id identity.Identity, chain *CommentChain) (bool, error) {
	if g.CanEditComment(id, chain) {
		return true, nil
	}
	return g.isOwner(ctx, id, chain.OwnerID)
}

// CanViewFeedback applies the visibility rule: owners see everything on
// their boards, everybody else only approved feedback on public boards.
func (g *Gate) CanViewFeedback(ctx context.Context, id identity.Identity, chain *FeedbackChain) (bool, error) {
	if chain.IsApproved && chain.BoardIsPublic {
		return true, nil
	}
	return g.isOwner(ctx, id, chain.OwnerID)
}

func (g *Gate) CanViewBoard(ctx context.Context, id identity.Identity, ref *BoardRef) (bool, error) {
	if ref.IsPublic {
		return true, nil
	}
	return g.isOwner(ctx, id, ref.OwnerID)
}

func (g *Gate) ResolveBoard(ctx context.Context, boardID string) (*BoardRef, error) {
	if !ValidID(boardID) {
		return nil, apperr.NotFound("board not found")
	}
	return g.repo.BoardRef(ctx, boardID)
}

func (g *Gate) ResolveFeedbackOwnerChain(ctx context.Context, feedbackID string) (*FeedbackChain, error) {
	if !ValidID(feedbackID) {
		return nil, apperr.NotFound("feedback not found")
	}
	return g.repo.FeedbackOwnerChain(ctx, feedbackID)
}

func (g *Gate) ResolveCommentOwnerChain(ctx context.Context, commentID string) (*CommentChain, error) {
	if !ValidID(commentID) {
		return nil, apperr.NotFound("comment not found")
	}
	return g.repo.CommentOwnerChain(ctx, commentID)
}

// VisibleFeedback resolves the chain and hides it from callers that may not
// observe it.
func (g *Gate) VisibleFeedback(ctx context.Context, id identity.Identity, feedbackID string) (*FeedbackChain, error) {
	chain, err := g.ResolveFeedbackOwnerChain(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	ok, err := g.CanViewFeedback(ctx, id, chain)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("feedback not found")
	}
	return chain, nil
}

// InteractableFeedback resolves the target of a vote or comment. Items on
// private boards stay hidden from non-owners and unapproved items are
// refused with FORBIDDEN.
func (g *Gate) InteractableFeedback(ctx context.Context, id identity.Identity, feedbackID string) (*FeedbackChain, error) {
	chain, err := g.ResolveFeedbackOwnerChain(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if !chain.BoardIsPublic {
		owner, err := g.isOwner(ctx, id, chain.OwnerID)
		if err != nil {
			return nil, err
		}
		if !owner {
			return nil, apperr.NotFound("feedback not found")
		}
	}
	if !chain.IsApproved {
		return nil, apperr.Forbidden("feedback is awaiting approval")
	}
	return chain, nil
}
