package customer_test

import (
	"context"
	"testing"

	"feedbackboard/internal/app/customer"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/testutil/memstore"

	"go.uber.org/zap"
)

func TestProvisionAndLookup(t *testing.T) {
	store := memstore.New()
	svc := customer.NewService(store.Customers(), zap.NewNop())
	ctx := context.Background()

	c, err := svc.Provision(ctx, customer.CreateCustomerInput{Email: " Owner@Acme.com", Name: "Acme", Slug: "acme"})
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	if c.Email != "owner@acme.com" || c.ID == "" {
		t.Fatalf("unexpected customer %+v", c)
	}

	got, err := svc.ForIdentity(ctx, identity.Identified("OWNER@acme.com"))
	if err != nil || got == nil || got.ID != c.ID {
		t.Fatalf("expected identity to resolve to customer, got %+v err=%v", got, err)
	}

	if got, err := svc.ForIdentity(ctx, identity.Identified("voter@x.com")); err != nil || got != nil {
		t.Fatalf("expected non-customer to resolve to nil, got %+v err=%v", got, err)
	}
	if got, err := svc.ForIdentity(ctx, identity.Anonymous()); err != nil || got != nil {
		t.Fatalf("expected anonymous to resolve to nil, got %+v err=%v", got, err)
	}
}

func TestProvisionRejectsDuplicatesAndBadInput(t *testing.T) {
	store := memstore.New()
	svc := customer.NewService(store.Customers(), zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Provision(ctx, customer.CreateCustomerInput{Email: "a@x.com", Name: "A", Slug: "aa"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Provision(ctx, customer.CreateCustomerInput{Email: "a@x.com", Name: "Alpha", Slug: "alpha"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Provision(ctx, customer.CreateCustomerInput{Email: "A@x.com", Name: "Alpha 2", Slug: "alpha-2"}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected duplicate email conflict, got %v", err)
	}
	if _, err := svc.Provision(ctx, customer.CreateCustomerInput{Email: "b@x.com", Name: "Beta", Slug: "alpha"}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected duplicate slug conflict, got %v", err)
	}
}
