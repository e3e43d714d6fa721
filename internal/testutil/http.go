package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedbackboard/internal/app/board"
	"feedbackboard/internal/app/comment"
	"feedbackboard/internal/app/feedback"
	"feedbackboard/internal/app/identity"
	"feedbackboard/internal/app/vote"
	"feedbackboard/internal/apperr"
	"feedbackboard/internal/config"
	"feedbackboard/internal/router"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WidgetOrigin is allow-listed for the submission endpoint by Server.
const WidgetOrigin = "https://shop.customer.com"

// bearerEmails treats the bearer token itself as the caller's email.
type bearerEmails struct{}

func (bearerEmails) EmailForSession(_ context.Context, key string) (string, error) {
	return key, nil
}

// Server mounts the domain handlers over the env behind the production
// middleware stack. Requests authenticate with "Authorization: Bearer <email>".
func (e *Env) Server(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	cfg := &config.Config{
		Env:                "dev",
		FrontendURLs:       []string{"http://localhost:3000"},
		CORSAllowedOrigins: []string{"*.customer.com"},
	}

	r := router.NewRouter(cfg, identity.NewResolver(bearerEmails{}, logger), logger)
	r.RegisterBoardRoutes(board.NewHandler(e.Boards, e.Gate, logger))
	r.RegisterFeedbackRoutes(feedback.NewHandler(e.Feedback, e.Boards, e.Gate, logger))
	r.RegisterVoteRoutes(vote.NewHandler(e.Votes, logger))
	r.RegisterCommentRoutes(comment.NewHandler(e.Comments, logger))
	return r.Engine
}

// Envelope is the decoded body of any API response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Error   string              `json:"error"`
	Code    apperr.Kind         `json:"code"`
	Details []apperr.FieldError `json:"details"`
	// Feedback is only set by the submission endpoint.
	Feedback json.RawMessage `json:"feedback"`
}

// Call performs a request as email (anonymous when empty) and decodes the
// response envelope.
func Call(t *testing.T, h http.Handler, method, path, email string, body interface{}) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+email)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env Envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: undecodable body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

// Decode unmarshals raw into dst.
func Decode(t *testing.T, raw json.RawMessage, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}
