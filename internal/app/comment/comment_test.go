package comment_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/testutil"
)

func TestCreateComment(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, owner, "acme", true, true)
	ctx := context.Background()
	alice := testutil.As("alice@x.com")

	pending := env.Submit(t, "acme", "Pending item")
	if _, err := env.Comments.Create(ctx, alice, pending.ID, "hello"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden on unapproved feedback, got %v", err)
	}

	f := env.Approved(t, owner, "acme", "Approved item")
	if _, err := env.Comments.Create(ctx, identity.Anonymous(), f.ID, "hello"); !apperr.Is(err, apperr.KindUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	for _, content := range []string{"", "   ", strings.Repeat("x", 1001)} {
		if _, err := env.Comments.Create(ctx, alice, f.ID, content); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %d chars, got %v", len(content), err)
		}
	}

	c, err := env.Comments.Create(ctx, alice, f.ID, "  "+strings.Repeat("y", 1000)+"  ")
	if err != nil {
		t.Fatalf("expected 1000 chars after trim to pass, got %v", err)
	}
	if len(c.Content) != 1000 || c.IsOfficial || c.EditedAt != nil || c.AuthorEmail != "alice@x.com" {
		t.Fatalf("unexpected comment %+v", c)
	}

	got, err := env.Feedback.Get(ctx, alice, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CommentCount != 1 {
		t.Fatalf("expected comment_count 1, got %d", got.CommentCount)
	}
}

func TestCommentAuthorship(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Customer(t, "other@corp.com", "corp")
	env.Board(t, owner, "acme", true, false)
	ctx := context.Background()

	f := env.Submit(t, "acme", "Broken button")
	alice := testutil.As("alice@x.com")
	bob := testutil.As("bob@x.com")
	ownerID := testutil.As("owner@acme.com")
	stranger := testutil.As("other@corp.com")

	c, err := env.Comments.Create(ctx, alice, f.ID, "first")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.Comments.Update(ctx, bob, c.ID, "edited by bob"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden edit by non-author, got %v", err)
	}
	if _, err := env.Comments.Update(ctx, ownerID, c.ID, "edited by owner"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected board owner not to edit others' comments, got %v", err)
	}
	edited, err := env.Comments.Update(ctx, alice, c.ID, "  second  ")
	if err != nil {
		t.Fatalf("expected author edit to pass, got %v", err)
	}
	if edited.Content != "second" || edited.EditedAt == nil {
		t.Fatalf("unexpected edited comment %+v", edited)
	}

	if _, err := env.Comments.MarkOfficial(ctx, alice, c.ID, true); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden markOfficial by author, got %v", err)
	}
	if _, err := env.Comments.MarkOfficial(ctx, stranger, c.ID, true); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden markOfficial by another customer, got %v", err)
	}
	for i := 0; i < 2; i++ {
		marked, err := env.Comments.MarkOfficial(ctx, ownerID, c.ID, true)
		if err != nil || !marked.IsOfficial {
			t.Fatalf("markOfficial #%d: got %+v err=%v", i+1, marked, err)
		}
	}
	unmarked, err := env.Comments.MarkOfficial(ctx, ownerID, c.ID, false)
	if err != nil || unmarked.IsOfficial {
		t.Fatalf("expected explicit false to clear the flag, got %+v err=%v", unmarked, err)
	}

	if err := env.Comments.Delete(ctx, bob, c.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden delete by non-author, got %v", err)
	}
	if err := env.Comments.Delete(ctx, ownerID, c.ID); err != nil {
		t.Fatalf("expected board owner to delete, got %v", err)
	}

	own, err := env.Comments.Create(ctx, bob, f.ID, "mine")
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Comments.Delete(ctx, bob, own.ID); err != nil {
		t.Fatalf("expected author to delete, got %v", err)
	}
	if err := env.Comments.Delete(ctx, bob, own.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	got, err := env.Feedback.Get(ctx, alice, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CommentCount != 0 || env.Store.CommentRows(f.ID) != 0 {
		t.Fatalf("expected no comments left, count=%d rows=%d", got.CommentCount, env.Store.CommentRows(f.ID))
	}
}

func TestListCommentsChronological(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, owner, "acme", true, false)
	ctx := context.Background()
	f := env.Submit(t, "acme", "Broken button")

	want := []string{"one", "two", "three"}
	for _, content := range want {
		if _, err := env.Comments.Create(ctx, testutil.As("alice@x.com"), f.ID, content); err != nil {
			t.Fatal(err)
		}
	}

	comments, err := env.Comments.List(ctx, identity.Anonymous(), f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != len(want) {
		t.Fatalf("expected %d comments, got %d", len(want), len(comments))
	}
	for i := 1; i < len(comments); i++ {
		if comments[i].CreatedAt.Before(comments[i-1].CreatedAt) {
			t.Fatalf("comments out of order at %d", i)
		}
	}

	n, err := env.Comments.Count(ctx, identity.Anonymous(), f.ID)
	if err != nil || n != 3 {
		t.Fatalf("expected count 3, got %d err=%v", n, err)
	}
}

func TestCommentsOnPrivateBoardAreHidden(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, owner, "private", false, false)
	ctx := context.Background()
	f := env.Submit(t, "private", "Internal item")
	ownerID := testutil.As("owner@acme.com")

	if _, err := env.Comments.Create(ctx, testutil.As("alice@x.com"), f.ID, "hi"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for outsider, got %v", err)
	}
	c, err := env.Comments.Create(ctx, ownerID, f.ID, "internal note")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.Comments.List(ctx, identity.Anonymous(), f.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected list to be hidden, got %v", err)
	}
	if err := env.Comments.Delete(ctx, testutil.As("alice@x.com"), c.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected hidden comment to be not found, got %v", err)
	}
	if _, err := env.Comments.List(ctx, ownerID, f.ID); err != nil {
		t.Fatalf("expected owner to list, got %v", err)
	}
}

func TestConcurrentCommentsKeepCounter(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, owner, "acme", true, false)
	ctx := context.Background()
	f := env.Submit(t, "acme", "Busy thread")

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := env.Comments.Create(ctx, testutil.As("alice@x.com"), f.ID, "comment")
			if err != nil {
				t.Error(err)
				return
			}
			if i%2 == 0 {
				if err := env.Comments.Delete(ctx, testutil.As("alice@x.com"), c.ID); err != nil {
					t.Error(err)
				}
			}
		}(i)
	}
	wg.Wait()

	got, err := env.Feedback.Get(ctx, identity.Anonymous(), f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CommentCount != writers/2 || env.Store.CommentRows(f.ID) != writers/2 {
		t.Fatalf("expected %d comments, count=%d rows=%d", writers/2, got.CommentCount, env.Store.CommentRows(f.ID))
	}
}
