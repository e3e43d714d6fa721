package customer

import (
	"context"
	"strings"
	"time"

	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Provision(ctx context.Context, in CreateCustomerInput) (*Customer, error)
	// ForIdentity returns the customer behind id, or nil when id is
	// anonymous or not a customer.
	ForIdentity(ctx context.Context, id identity.Identity) (*Customer, error)
	List(ctx context.Context) ([]*Customer, error)
}

type service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger.Sugar()}
}

func (s *service) Provision(ctx context.Context, in CreateCustomerInput) (*Customer, error) {
	in.Email = identity.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, apperr.Conflict("a customer with this email already exists")
	} else if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	c := &Customer{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Name:      in.Name,
		Slug:      in.Slug,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("customer email or slug already taken")
		}
		return nil, err
	}
	s.logger.Infow("Customer provisioned", "customer_id", c.ID, "email", c.Email)
	return c, nil
}

func (s *service) ForIdentity(ctx context.Context, id identity.Identity) (*Customer, error) {
	if id.IsAnonymous() {
		return nil, nil
	}
	c, err := s.repo.GetByEmail(ctx, id.Email())
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.List(ctx)
}
