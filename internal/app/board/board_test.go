package board_test

import (
	"context"
	"testing"
	"time"

	"feedbackboard/internal/app/board"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestCreateBoardDefaults(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")

	b, err := env.Boards.CreateBoard(context.Background(), owner.ID, board.CreateBoardInput{
		Name: "Acme feedback",
		Slug: "acme",
	})
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}
	if b.IsPublic {
		t.Error("expected boards to be private by default")
	}
	if !b.RequiresApproval {
		t.Error("expected boards to require approval by default")
	}
	if b.OwnerID != owner.ID {
		t.Errorf("expected owner %s, got %s", owner.ID, b.OwnerID)
	}
}

func TestCreateBoardValidation(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	ctx := context.Background()

	tests := []struct {
		name string
		in   board.CreateBoardInput
		kind apperr.Kind
	}{
		{"uppercase slug", board.CreateBoardInput{Name: "Valid", Slug: "Acme"}, apperr.KindValidation},
		{"slug with space", board.CreateBoardInput{Name: "Valid", Slug: "ac me"}, apperr.KindValidation},
		{"short slug", board.CreateBoardInput{Name: "Valid", Slug: "ac"}, apperr.KindValidation},
		{"short name", board.CreateBoardInput{Name: "ab", Slug: "valid"}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.Boards.CreateBoard(ctx, owner.ID, tt.in); !apperr.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}

	if _, err := env.Boards.CreateBoard(ctx, owner.ID, board.CreateBoardInput{Name: "First", Slug: "taken"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Boards.CreateBoard(ctx, owner.ID, board.CreateBoardInput{Name: "Second", Slug: "taken"}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate slug, got %v", err)
	}
}

func TestGetBoardBySlugVisibility(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	other := env.Customer(t, "other@corp.com", "corp")
	env.Board(t, owner, "private-board", false, true)
	env.Board(t, owner, "public-board", true, true)
	ctx := context.Background()

	if _, err := env.Boards.GetBoardBySlug(ctx, "private-board", nil); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected private board to be hidden, got %v", err)
	}
	if _, err := env.Boards.GetBoardBySlug(ctx, "public-board", nil); err != nil {
		t.Fatalf("expected public board, got %v", err)
	}
	if _, err := env.Boards.GetBoardBySlug(ctx, "private-board", &owner.ID); err != nil {
		t.Fatalf("expected owner to see private board, got %v", err)
	}
	if _, err := env.Boards.GetBoardBySlug(ctx, "public-board", &other.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for another customer, got %v", err)
	}
	if _, err := env.Boards.GetBoardBySlug(ctx, "missing", nil); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := env.Boards.GetVisibleBoard(ctx, testutil.As("voter@x.com"), "private-board"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected private board hidden from voter, got %v", err)
	}
	if _, err := env.Boards.GetVisibleBoard(ctx, testutil.As("OWNER@acme.com"), "private-board"); err != nil {
		t.Fatalf("expected owner to see own private board, got %v", err)
	}
}

func TestUpdateBoardSlugChange(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	other := env.Customer(t, "other@corp.com", "corp")
	b := env.Board(t, owner, "acme", true, true)
	env.Board(t, owner, "taken", true, true)
	ctx := context.Background()

	// warm the slug cache
	if _, err := env.Boards.GetBoardBySlug(ctx, "acme", nil); err != nil {
		t.Fatal(err)
	}

	if _, err := env.Boards.UpdateBoard(ctx, other.ID, b.ID, board.UpdateBoardInput{Name: strPtr("Hijacked")}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	if _, err := env.Boards.UpdateBoard(ctx, owner.ID, b.ID, board.UpdateBoardInput{Slug: strPtr("taken")}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := env.Boards.UpdateBoard(ctx, owner.ID, b.ID, board.UpdateBoardInput{Slug: strPtr("Not_Valid")}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	res, err := env.Boards.UpdateBoard(ctx, owner.ID, b.ID, board.UpdateBoardInput{
		Slug:     strPtr("acme-2"),
		IsPublic: func() *bool { v := false; return &v }(),
	})
	if err != nil {
		t.Fatalf("UpdateBoard failed: %v", err)
	}
	if res.PreviousSlug != "acme" || res.Board.Slug != "acme-2" || res.Board.IsPublic {
		t.Fatalf("unexpected update result %+v / %+v", res, res.Board)
	}

	if _, err := env.Boards.GetBoardBySlug(ctx, "acme", &owner.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected old slug to be gone, got %v", err)
	}
	got, err := env.Boards.GetBoardBySlug(ctx, "acme-2", &owner.ID)
	if err != nil || got.ID != b.ID {
		t.Fatalf("expected board under new slug, got %+v err=%v", got, err)
	}

	same, err := env.Boards.UpdateBoard(ctx, owner.ID, b.ID, board.UpdateBoardInput{Name: strPtr("Renamed")})
	if err != nil {
		t.Fatal(err)
	}
	if same.PreviousSlug != "" || same.Board.Name != "Renamed" {
		t.Fatalf("expected name-only update without slug change, got %+v", same)
	}
}

func TestDeleteBoardCascades(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	other := env.Customer(t, "other@corp.com", "corp")
	b := env.Board(t, owner, "acme", true, false)
	ctx := context.Background()

	f := env.Submit(t, "acme", "Broken button")
	if _, err := env.Votes.ToggleVote(ctx, testutil.As("alice@x.com"), f.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Comments.Create(ctx, testutil.As("alice@x.com"), f.ID, "same here"); err != nil {
		t.Fatal(err)
	}

	events, cancel := env.Bus.Subscribe()
	defer cancel()

	if err := env.Boards.DeleteBoard(ctx, other.ID, b.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := env.Boards.DeleteBoard(ctx, owner.ID, b.ID); err != nil {
		t.Fatalf("DeleteBoard failed: %v", err)
	}

	fb, votes, comments := env.Store.Rows()
	if fb != 0 || votes != 0 || comments != 0 {
		t.Fatalf("expected no orphans, got feedback=%d votes=%d comments=%d", fb, votes, comments)
	}
	if _, err := env.Boards.GetBoardBySlug(ctx, "acme", nil); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected deleted board to be gone, got %v", err)
	}

	select {
	case e := <-events:
		if e.Event != "board_deleted" || e.BoardSlug != "acme" {
			t.Fatalf("unexpected event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("expected board_deleted event")
	}
}

func TestListBoardsOnlyOwn(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	other := env.Customer(t, "other@corp.com", "corp")
	env.Board(t, owner, "one", true, true)
	env.Board(t, owner, "two", false, true)
	env.Board(t, other, "three", true, true)

	boards, err := env.Boards.ListBoards(context.Background(), owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(boards))
	}
	for _, b := range boards {
		if b.OwnerID != owner.ID {
			t.Fatalf("listed a board of another owner: %+v", b)
		}
	}
}
