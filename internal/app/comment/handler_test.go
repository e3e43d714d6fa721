package comment_test

import (
	"net/http"
	"strings"
	"testing"

	"feedbackboard/internal/app/comment"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/testutil"
)

func TestCommentRoutes(t *testing.T) {
	env := testutil.NewEnv(t)
	acme := env.Customer(t, "owner@acme.com", "acme-inc")
	env.Board(t, acme, "acme", true, true)
	f := env.Approved(t, acme, "acme", "Dark mode")
	pending := env.Submit(t, "acme", "Pending idea")
	srv := env.Server(t)
	commentsPath := "/api/feedback/" + f.ID + "/comments"

	w, body := testutil.Call(t, srv, http.MethodPost, commentsPath, "Alice@X.com", map[string]string{"content": "  +1, please ship this  "})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created comment.Comment
	testutil.Decode(t, body.Data, &created)
	if created.AuthorEmail != "alice@x.com" || created.Content != "+1, please ship this" || created.IsOfficial {
		t.Fatalf("unexpected comment %+v", created)
	}
	commentPath := "/api/comments/" + created.ID

	tests := []struct {
		name     string
		method   string
		path     string
		email    string
		body     interface{}
		wantCode int
		wantKind apperr.Kind
	}{
		{"create anonymously", http.MethodPost, commentsPath, "", map[string]string{"content": "hello"}, http.StatusUnauthorized, apperr.KindUnauthenticated},
		{"create blank", http.MethodPost, commentsPath, "bob@x.com", map[string]string{"content": "   "}, http.StatusBadRequest, apperr.KindValidation},
		{"create too long", http.MethodPost, commentsPath, "bob@x.com", map[string]string{"content": strings.Repeat("a", 1001)}, http.StatusBadRequest, apperr.KindValidation},
		{"create on pending feedback", http.MethodPost, "/api/feedback/" + pending.ID + "/comments", "bob@x.com", map[string]string{"content": "hello"}, http.StatusForbidden, apperr.KindForbidden},
		{"edit by another user", http.MethodPatch, commentPath, "bob@x.com", map[string]string{"content": "edited"}, http.StatusForbidden, apperr.KindForbidden},
		{"edit by the board owner", http.MethodPatch, commentPath, "owner@acme.com", map[string]string{"content": "edited"}, http.StatusForbidden, apperr.KindForbidden},
		{"delete anonymously", http.MethodDelete, commentPath, "", nil, http.StatusUnauthorized, apperr.KindUnauthenticated},
		{"delete by another user", http.MethodDelete, commentPath, "bob@x.com", nil, http.StatusForbidden, apperr.KindForbidden},
		{"official by a non-owner", http.MethodPost, commentPath + "/official", "alice@x.com", map[string]bool{"is_official": true}, http.StatusForbidden, apperr.KindForbidden},
		{"official without flag", http.MethodPost, commentPath + "/official", "owner@acme.com", map[string]string{}, http.StatusBadRequest, apperr.KindValidation},
		{"unknown comment", http.MethodDelete, "/api/comments/not-a-uuid", "alice@x.com", nil, http.StatusNotFound, apperr.KindNotFound},
		{"list pending feedback publicly", http.MethodGet, "/api/feedback/" + pending.ID + "/comments", "", nil, http.StatusNotFound, apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := testutil.Call(t, srv, tt.method, tt.path, tt.email, tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if body.Success || body.Code != tt.wantKind {
				t.Fatalf("expected %s error envelope, got %+v", tt.wantKind, body)
			}
		})
	}

	w, body = testutil.Call(t, srv, http.MethodPatch, commentPath, "alice@x.com", map[string]string{"content": "edited"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var edited comment.Comment
	testutil.Decode(t, body.Data, &edited)
	if edited.Content != "edited" || edited.EditedAt == nil {
		t.Fatalf("unexpected edit %+v", edited)
	}

	w, body = testutil.Call(t, srv, http.MethodPost, commentPath+"/official", "owner@acme.com", map[string]bool{"is_official": true})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var official comment.Comment
	testutil.Decode(t, body.Data, &official)
	if !official.IsOfficial {
		t.Fatal("expected the comment to be official")
	}

	w, body = testutil.Call(t, srv, http.MethodGet, commentsPath, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list comment.ListResponse
	testutil.Decode(t, body.Data, &list)
	if list.Count != 1 || len(list.Comments) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}

	w, body = testutil.Call(t, srv, http.MethodDelete, commentPath, "owner@acme.com", nil)
	if w.Code != http.StatusOK || body.Message != "comment deleted" {
		t.Fatalf("board owner should delete any comment, got %d: %s", w.Code, w.Body.String())
	}

	var count struct {
		Count int `json:"count"`
	}
	w, body = testutil.Call(t, srv, http.MethodGet, commentsPath+"/count", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	testutil.Decode(t, body.Data, &count)
	if count.Count != 0 {
		t.Fatalf("count = %d after delete, want 0", count.Count)
	}
}
