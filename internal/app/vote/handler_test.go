package vote_test

import (
	"net/http"
	"testing"

	"feedbackboard/internal/app/vote"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/testutil"
)

func TestVoteRoutes(t *testing.T) {
	env := testutil.NewEnv(t)
	acme := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, acme, "acme", true, true)
	env.Board(t, acme, "internal", false, false)
	approved := env.Approved(t, acme, "acme", "Dark mode")
	pending := env.Submit(t, "acme", "Pending idea")
	hidden := env.Submit(t, "internal", "Private roadmap")
	srv := env.Server(t)

	votePath := func(id string) string { return "/api/feedback/" + id + "/vote" }
	tests := []struct {
		name     string
		path     string
		email    string
		wantCode int
		wantKind apperr.Kind
	}{
		{"anonymous", votePath(approved.ID), "", http.StatusUnauthorized, apperr.KindUnauthenticated},
		{"private board", votePath(hidden.ID), "voter@x.com", http.StatusNotFound, apperr.KindNotFound},
		{"awaiting approval", votePath(pending.ID), "voter@x.com", http.StatusForbidden, apperr.KindForbidden},
		{"malformed id", votePath("nope"), "voter@x.com", http.StatusNotFound, apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := testutil.Call(t, srv, http.MethodPost, tt.path, tt.email, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if body.Success || body.Code != tt.wantKind {
				t.Fatalf("expected %s error envelope, got %+v", tt.wantKind, body)
			}
		})
	}

	toggle := func(email string) vote.ToggleResult {
		t.Helper()
		w, body := testutil.Call(t, srv, http.MethodPost, votePath(approved.ID), email, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var result vote.ToggleResult
		testutil.Decode(t, body.Data, &result)
		return result
	}
	if r := toggle("voter@x.com"); !r.HasVoted || r.VoteCount != 1 {
		t.Fatalf("first toggle = %+v", r)
	}
	if r := toggle("VOTER@x.com"); r.HasVoted || r.VoteCount != 0 {
		t.Fatalf("second toggle by the same voter = %+v", r)
	}
	if r := toggle("other@x.com"); !r.HasVoted || r.VoteCount != 1 {
		t.Fatalf("toggle by another voter = %+v", r)
	}

	var state struct {
		HasVoted bool `json:"has_voted"`
	}
	w, body := testutil.Call(t, srv, http.MethodGet, votePath(approved.ID), "other@x.com", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	testutil.Decode(t, body.Data, &state)
	if !state.HasVoted {
		t.Fatal("expected has_voted for other@x.com")
	}
	w, body = testutil.Call(t, srv, http.MethodGet, votePath(approved.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	testutil.Decode(t, body.Data, &state)
	if state.HasVoted {
		t.Fatal("anonymous callers never have a vote")
	}
}

func TestVoteLookupRoute(t *testing.T) {
	env := testutil.NewEnv(t)
	acme := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, acme, "acme", true, false)
	a := env.Submit(t, "acme", "Dark mode")
	b := env.Submit(t, "acme", "Export to CSV")
	srv := env.Server(t)

	if w, _ := testutil.Call(t, srv, http.MethodPost, "/api/feedback/"+a.ID+"/vote", "voter@x.com", nil); w.Code != http.StatusOK {
		t.Fatalf("vote: expected 200, got %d", w.Code)
	}

	w, body := testutil.Call(t, srv, http.MethodPost, "/api/votes/lookup", "voter@x.com",
		map[string][]string{"feedback_ids": {a.ID, b.ID, "junk"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp vote.LookupResponse
	testutil.Decode(t, body.Data, &resp)
	if !resp.Voted[a.ID] || resp.Voted[b.ID] || resp.Voted["junk"] || len(resp.Voted) != 3 {
		t.Fatalf("unexpected lookup %+v", resp.Voted)
	}

	w, body = testutil.Call(t, srv, http.MethodPost, "/api/votes/lookup", "voter@x.com", map[string]string{})
	if w.Code != http.StatusBadRequest || body.Code != apperr.KindValidation {
		t.Fatalf("expected 400 without feedback_ids, got %d: %s", w.Code, w.Body.String())
	}
}
