package vote_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/testutil"
)

func TestToggleVoteAlternates(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, owner, "acme", true, false)
	f := env.Submit(t, "acme", "Broken button")
	ctx := context.Background()
	alice := testutil.As("alice@x.com")

	for i := 1; i <= 5; i++ {
		res, err := env.Votes.ToggleVote(ctx, alice, f.ID)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		wantVoted := i%2 == 1
		wantCount := 0
		if wantVoted {
			wantCount = 1
		}
		if res.HasVoted != wantVoted || res.VoteCount != wantCount {
			t.Fatalf("toggle %d: got %+v", i, res)
		}
		if env.Store.VoteRows(f.ID) != wantCount {
			t.Fatalf("toggle %d: ledger has %d rows", i, env.Store.VoteRows(f.ID))
		}
	}

	// emails compare case-insensitively
	res, err := env.Votes.ToggleVote(ctx, testutil.As("ALICE@x.com"), f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.HasVoted || res.VoteCount != 0 {
		t.Fatalf("expected the mixed-case email to remove alice's vote, got %+v", res)
	}
}

func TestToggleVoteRejections(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, owner, "public", true, true)
	env.Board(t, owner, "private", false, false)
	ctx := context.Background()

	pending := env.Submit(t, "public", "Pending item")
	private := env.Submit(t, "private", "Private item")
	voter := testutil.As("voter@x.com")

	tests := []struct {
		name       string
		id         identity.Identity
		feedbackID string
		kind       apperr.Kind
	}{
		{"anonymous", identity.Anonymous(), pending.ID, apperr.KindUnauthenticated},
		{"missing feedback", voter, "6f1c1c9e-1d7e-4a53-9a8e-000000000000", apperr.KindNotFound},
		{"malformed id", voter, "42", apperr.KindNotFound},
		{"unapproved feedback", voter, pending.ID, apperr.KindForbidden},
		{"private board", voter, private.ID, apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.Votes.ToggleVote(ctx, tt.id, tt.feedbackID); !apperr.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}

	res, err := env.Votes.ToggleVote(ctx, testutil.As("owner@acme.com"), private.ID)
	if err != nil || res.VoteCount != 1 {
		t.Fatalf("expected owner to vote on own private board, got %+v err=%v", res, err)
	}
}

func TestConcurrentTogglesKeepLedgerConsistent(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, owner, "acme", true, false)
	f := env.Submit(t, "acme", "Popular request")
	ctx := context.Background()

	const voters = 40
	const sameUserToggles = 10

	var wg sync.WaitGroup
	errs := make(chan error, voters+sameUserToggles)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.Votes.ToggleVote(ctx, testutil.As(fmt.Sprintf("user%d@x.com", i)), f.ID)
			errs <- err
		}(i)
	}
	for i := 0; i < sameUserToggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.Votes.ToggleVote(ctx, testutil.As("busy@x.com"), f.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
	}

	got, err := env.Feedback.Get(ctx, identity.Anonymous(), f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.VoteCount != voters {
		t.Fatalf("expected %d votes, got %d", voters, got.VoteCount)
	}
	if rows := env.Store.VoteRows(f.ID); rows != got.VoteCount {
		t.Fatalf("vote_count %d does not match ledger rows %d", got.VoteCount, rows)
	}
	voted, err := env.Votes.HasVoted(ctx, testutil.As("busy@x.com"), f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if voted {
		t.Fatal("an even number of toggles must leave no vote")
	}
}

func TestHasVotedAndVotedMap(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, owner, "acme", true, false)
	a := env.Submit(t, "acme", "First item")
	b := env.Submit(t, "acme", "Second item")
	ctx := context.Background()
	alice := testutil.As("alice@x.com")

	if _, err := env.Votes.ToggleVote(ctx, alice, a.ID); err != nil {
		t.Fatal(err)
	}

	if voted, err := env.Votes.HasVoted(ctx, alice, a.ID); err != nil || !voted {
		t.Fatalf("expected alice to have voted on a, got %v err=%v", voted, err)
	}
	if voted, err := env.Votes.HasVoted(ctx, identity.Anonymous(), a.ID); err != nil || voted {
		t.Fatalf("expected anonymous to have no vote, got %v err=%v", voted, err)
	}

	m, err := env.Votes.VotedMap(ctx, alice, []string{a.ID, b.ID, "bogus"})
	if err != nil {
		t.Fatal(err)
	}
	if !m[a.ID] || m[b.ID] || m["bogus"] {
		t.Fatalf("unexpected voted map %v", m)
	}
	if len(m) != 3 {
		t.Fatalf("expected an entry per requested id, got %v", m)
	}

	anon, err := env.Votes.VotedMap(ctx, identity.Anonymous(), []string{a.ID})
	if err != nil || anon[a.ID] {
		t.Fatalf("expected anonymous map to be all false, got %v err=%v", anon, err)
	}
}

func TestToggleVotePublishesCountWithoutVoter(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, owner, "acme", true, false)
	f := env.Submit(t, "acme", "Broken button")

	events, cancel := env.Bus.Subscribe()
	defer cancel()

	if _, err := env.Votes.ToggleVote(context.Background(), testutil.As("alice@x.com"), f.ID); err != nil {
		t.Fatal(err)
	}
	e := <-events
	if e.Event != "vote_toggled" || e.BoardSlug != "acme" {
		t.Fatalf("unexpected event %+v", e)
	}
	data, ok := e.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected payload %T", e.Data)
	}
	if data["vote_count"] != 1 || data["feedback_id"] != f.ID {
		t.Fatalf("unexpected payload %v", data)
	}
	if _, leaked := data["voter_email"]; leaked {
		t.Fatal("voter email must not be broadcast")
	}
}
