// Package memstore is an in-memory implementation of the repositories,
// sharing one state so cascades and counters behave like the database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"feedbackboard/internal/app/authz"
	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/comment"
	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/app/feedback"
	"feedbackboard/internal/app/vote"
	"feedbackboard/internal/apperr"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.Mutex
	customers map[string]*customer.Customer
	boards    map[string]*board.Board
	feedback  map[string]*feedback.Feedback
	votes     map[string]*vote.Vote
	comments  map[string]*comment.Comment
}

func New() *Store {
	return &Store{
		customers: map[string]*customer.Customer{},
		boards:    map[string]*board.Board{},
		feedback:  map[string]*feedback.Feedback{},
		votes:     map[string]*vote.Vote{},
		comments:  map[string]*comment.Comment{},
	}
}

func (s *Store) Customers() customer.Repository { return customerRepo{s} }
func (s *Store) Boards() board.Repository       { return boardRepo{s} }
func (s *Store) Feedback() feedback.Repository  { return feedbackRepo{s} }
func (s *Store) Votes() vote.Repository         { return voteRepo{s} }
func (s *Store) Comments() comment.Repository   { return commentRepo{s} }
func (s *Store) Authz() authz.Repository        { return authzRepo{s} }

// VoteRows counts ledger rows for a feedback item.
func (s *Store) VoteRows(feedbackID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.votes {
		if v.FeedbackID == feedbackID {
			n++
		}
	}
	return n
}

func (s *Store) CommentRows(feedbackID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commentRowsLocked(feedbackID)
}

func (s *Store) commentRowsLocked(feedbackID string) int {
	n := 0
	for _, c := range s.comments {
		if c.FeedbackID == feedbackID {
			n++
		}
	}
	return n
}

// Rows returns the total number of feedback, vote and comment rows.
func (s *Store) Rows() (feedbackRows, voteRows, commentRows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.feedback), len(s.votes), len(s.comments)
}

// deleteFeedbackLocked removes the item with its votes and comments.
func (s *Store) deleteFeedbackLocked(id string) {
	for vid, v := range s.votes {
		if v.FeedbackID == id {
			delete(s.votes, vid)
		}
	}
	for cid, c := range s.comments {
		if c.FeedbackID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.feedback, id)
}

type customerRepo struct{ s *Store }

func (r customerRepo) Create(_ context.Context, c *customer.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customers {
		if existing.Email == c.Email || existing.Slug == c.Slug {
			return apperr.Conflict("resource already exists")
		}
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r customerRepo) GetByEmail(_ context.Context, email string) (*customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("customer not found")
}

func (r customerRepo) GetByID(_ context.Context, id string) (*customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, apperr.NotFound("customer not found")
	}
	cp := *c
	return &cp, nil
}

func (r customerRepo) List(_ context.Context) ([]*customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*customer.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type boardRepo struct{ s *Store }

func (r boardRepo) Create(_ context.Context, b *board.Board) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[b.OwnerID]; !ok {
		return apperr.Internal("database operation failed", nil)
	}
	for _, existing := range r.s.boards {
		if existing.Slug == b.Slug {
			return apperr.Conflict("resource already exists")
		}
	}
	cp := *b
	r.s.boards[b.ID] = &cp
	return nil
}

func (r boardRepo) GetByID(_ context.Context, id string) (*board.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.boards[id]
	if !ok {
		return nil, apperr.NotFound("board not found")
	}
	cp := *b
	return &cp, nil
}

func (r boardRepo) GetBySlug(_ context.Context, slug string) (*board.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.boards {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("board not found")
}

func (r boardRepo) ListByOwner(_ context.Context, ownerID string) ([]*board.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*board.Board{}
	for _, b := range r.s.boards {
		if b.OwnerID == ownerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r boardRepo) SlugTaken(_ context.Context, slug, exceptID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.boards {
		if b.Slug == slug && b.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r boardRepo) Update(_ context.Context, b *board.Board) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.boards[b.ID]
	if !ok {
		return apperr.NotFound("board not found")
	}
	for _, other := range r.s.boards {
		if other.ID != b.ID && other.Slug == b.Slug {
			return apperr.Conflict("resource already exists")
		}
	}
	existing.Name = b.Name
	existing.Description = b.Description
	existing.Slug = b.Slug
	existing.IsPublic = b.IsPublic
	existing.RequiresApproval = b.RequiresApproval
	existing.UpdatedAt = b.UpdatedAt
	return nil
}

func (r boardRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.boards[id]; !ok {
		return apperr.NotFound("board not found")
	}
	for fid, f := range r.s.feedback {
		if f.BoardID == id {
			r.s.deleteFeedbackLocked(fid)
		}
	}
	delete(r.s.boards, id)
	return nil
}

type feedbackRepo struct{ s *Store }

func (r feedbackRepo) Create(_ context.Context, f *feedback.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.boards[f.BoardID]; !ok {
		return apperr.Internal("database operation failed", nil)
	}
	cp := *f
	r.s.feedback[f.ID] = &cp
	return nil
}

func (r feedbackRepo) GetByID(_ context.Context, id string) (*feedback.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.feedback[id]
	if !ok {
		return nil, apperr.NotFound("feedback not found")
	}
	cp := *f
	return &cp, nil
}

func (r feedbackRepo) List(_ context.Context, q feedback.ListQuery) ([]*feedback.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*feedback.Feedback{}
	for _, f := range r.s.feedback {
		if f.BoardID != q.BoardID {
			continue
		}
		if q.Type != "" && f.Type != q.Type {
			continue
		}
		if q.Approval == feedback.FilterPending && f.IsApproved {
			continue
		}
		if q.Approval == feedback.FilterApproved && !f.IsApproved {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if q.Sort == feedback.SortVotes && a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r feedbackRepo) Approve(_ context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.feedback[id]
	if !ok || f.IsApproved {
		return false, nil
	}
	f.IsApproved = true
	f.UpdatedAt = at
	return true, nil
}

func (r feedbackRepo) SetStatus(_ context.Context, id string, status feedback.Status, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.feedback[id]
	if !ok {
		return apperr.NotFound("feedback not found")
	}
	f.Status = status
	f.UpdatedAt = at
	return nil
}

func (r feedbackRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.feedback[id]; !ok {
		return apperr.NotFound("feedback not found")
	}
	r.s.deleteFeedbackLocked(id)
	return nil
}

type voteRepo struct{ s *Store }

// Toggle holds the store lock for the whole read-modify-write, standing in
// for the row lock of the SQL implementation.
func (r voteRepo) Toggle(_ context.Context, feedbackID, voterEmail string) (*vote.ToggleResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.feedback[feedbackID]
	if !ok {
		return nil, apperr.NotFound("feedback not found")
	}

	result := &vote.ToggleResult{}
	removed := false
	for id, v := range r.s.votes {
		if v.FeedbackID == feedbackID && v.VoterEmail == voterEmail {
			delete(r.s.votes, id)
			removed = true
		}
	}
	if !removed {
		id := uuid.NewString()
		r.s.votes[id] = &vote.Vote{
			ID:         id,
			FeedbackID: feedbackID,
			VoterEmail: voterEmail,
			CreatedAt:  time.Now().UTC(),
		}
		result.HasVoted = true
	}

	count := 0
	for _, v := range r.s.votes {
		if v.FeedbackID == feedbackID {
			count++
		}
	}
	f.VoteCount = count
	result.VoteCount = count
	return result, nil
}

func (r voteRepo) Exists(_ context.Context, feedbackID, voterEmail string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.votes {
		if v.FeedbackID == feedbackID && v.VoterEmail == voterEmail {
			return true, nil
		}
	}
	return false, nil
}

func (r voteRepo) VotedFeedbackIDs(_ context.Context, voterEmail string, feedbackIDs []string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[string]bool, len(feedbackIDs))
	for _, id := range feedbackIDs {
		wanted[id] = true
	}
	var out []string
	for _, v := range r.s.votes {
		if v.VoterEmail == voterEmail && wanted[v.FeedbackID] {
			out = append(out, v.FeedbackID)
		}
	}
	return out, nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, c *comment.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.feedback[c.FeedbackID]
	if !ok {
		return apperr.NotFound("feedback not found")
	}
	cp := *c
	r.s.comments[c.ID] = &cp
	f.CommentCount = r.s.commentRowsLocked(c.FeedbackID)
	return nil
}

func (r commentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return apperr.NotFound("comment not found")
	}
	delete(r.s.comments, id)
	if f, ok := r.s.feedback[c.FeedbackID]; ok {
		f.CommentCount = r.s.commentRowsLocked(c.FeedbackID)
	}
	return nil
}

func (r commentRepo) GetByID(_ context.Context, id string) (*comment.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, apperr.NotFound("comment not found")
	}
	cp := *c
	return &cp, nil
}

func (r commentRepo) UpdateContent(_ context.Context, id, content string, editedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return apperr.NotFound("comment not found")
	}
	c.Content = content
	c.EditedAt = &editedAt
	return nil
}

func (r commentRepo) SetOfficial(_ context.Context, id string, official bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return apperr.NotFound("comment not found")
	}
	c.IsOfficial = official
	return nil
}

func (r commentRepo) ListByFeedback(_ context.Context, feedbackID string) ([]*comment.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*comment.Comment{}
	for _, c := range r.s.comments {
		if c.FeedbackID == feedbackID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r commentRepo) CountByFeedback(_ context.Context, feedbackID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.commentRowsLocked(feedbackID), nil
}

type authzRepo struct{ s *Store }

func (r authzRepo) BoardRef(_ context.Context, boardID string) (*authz.BoardRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.boards[boardID]
	if !ok {
		return nil, apperr.NotFound("board not found")
	}
	return &authz.BoardRef{BoardID: b.ID, Slug: b.Slug, OwnerID: b.OwnerID, IsPublic: b.IsPublic}, nil
}

func (r authzRepo) FeedbackOwnerChain(_ context.Context, feedbackID string) (*authz.FeedbackChain, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.feedback[feedbackID]
	if !ok {
		return nil, apperr.NotFound("feedback not found")
	}
	b, ok := r.s.boards[f.BoardID]
	if !ok {
		return nil, apperr.NotFound("feedback not found")
	}
	return &authz.FeedbackChain{
		FeedbackID:    f.ID,
		IsApproved:    f.IsApproved,
		BoardID:       b.ID,
		BoardSlug:     b.Slug,
		BoardIsPublic: b.IsPublic,
		OwnerID:       b.OwnerID,
	}, nil
}

func (r authzRepo) CommentOwnerChain(_ context.Context, commentID string) (*authz.CommentChain, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[commentID]
	if !ok {
		return nil, apperr.NotFound("comment not found")
	}
	f, ok := r.s.feedback[c.FeedbackID]
	if !ok {
		return nil, apperr.NotFound("comment not found")
	}
	b, ok := r.s.boards[f.BoardID]
	if !ok {
		return nil, apperr.NotFound("comment not found")
	}
	return &authz.CommentChain{
		CommentID:          c.ID,
		AuthorEmail:        c.AuthorEmail,
		FeedbackID:         f.ID,
		FeedbackIsApproved: f.IsApproved,
		BoardID:            b.ID,
		BoardSlug:          b.Slug,
		BoardIsPublic:      b.IsPublic,
		OwnerID:            b.OwnerID,
	}, nil
}
