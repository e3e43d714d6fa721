// Package testutil wires the services over the in-memory store and a
// miniredis instance for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"feedbackboard/internal/app/authz"
	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/comment"
	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/app/feedback"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/app/vote"
	"feedbackboard/internal/providers/redis"
	"feedbackboard/internal/testutil/memstore"
	"feedbackboard/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

type Env struct {
	Store *memstore.Store
	Mini  *miniredis.Miniredis
	Redis *redis.RedisProvider
	Bus   *utils.EventBus

	Customers customer.Service
	Gate      *authz.Gate
	Boards    board.Service
	Feedback  feedback.Service
	Votes     vote.Service
	Comments  comment.Service
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	logger := zap.NewNop()
	mr := miniredis.RunT(t)
	rp := redis.NewRedisProvider("redis://"+mr.Addr(), logger, time.Minute)
	t.Cleanup(func() { _ = rp.Close() })

	store := memstore.New()
	bus := utils.NewEventBus()
	customers := customer.NewService(store.Customers(), logger)
	gate := authz.NewGate(store.Authz(), customers, logger)

	return &Env{
		Store:     store,
		Mini:      mr,
		Redis:     rp,
		Bus:       bus,
		Customers: customers,
		Gate:      gate,
		Boards:    board.NewService(store.Boards(), gate, rp, bus, logger),
		Feedback:  feedback.NewService(store.Feedback(), store.Boards(), gate, rp, bus, logger),
		Votes:     vote.NewService(store.Votes(), gate, rp, bus, logger),
		Comments:  comment.NewService(store.Comments(), gate, rp, bus, logger),
	}
}

func (e *Env) Customer(t *testing.T, email, slug string) *customer.Customer {
	t.Helper()
	c, err := e.Customers.Provision(context.Background(), customer.CreateCustomerInput{
		Email: email,
		Name:  "Customer " + slug,
		Slug:  slug,
	})
	if err != nil {
		t.Fatalf("provision %s: %v", email, err)
	}
	return c
}

func (e *Env) Board(t *testing.T, owner *customer.Customer, slug string, public, requiresApproval bool) *board.Board {
	t.Helper()
	b, err := e.Boards.CreateBoard(context.Background(), owner.ID, board.CreateBoardInput{
		Name:             "Board " + slug,
		Slug:             slug,
		IsPublic:         &public,
		RequiresApproval: &requiresApproval,
	})
	if err != nil {
		t.Fatalf("create board %s: %v", slug, err)
	}
	return b
}

func (e *Env) Submit(t *testing.T, slug, title string) *feedback.Feedback {
	t.Helper()
	f, _, err := e.Feedback.Submit(context.Background(), feedback.SubmitInput{
		BoardSlug:   slug,
		Title:       title,
		Description: "Description of " + title,
		Type:        feedback.TypeBug,
	})
	if err != nil {
		t.Fatalf("submit %q: %v", title, err)
	}
	return f
}

// Approved submits feedback and approves it as the board owner.
func (e *Env) Approved(t *testing.T, owner *customer.Customer, slug, title string) *feedback.Feedback {
	t.Helper()
	f := e.Submit(t, slug, title)
	if f.IsApproved {
		return f
	}
	approved, err := e.Feedback.Approve(context.Background(), owner.ID, f.ID)
	if err != nil {
		t.Fatalf("approve %q: %v", title, err)
	}
	return approved
}

func As(email string) identity.Identity {
	return identity.Identified(email)
}
