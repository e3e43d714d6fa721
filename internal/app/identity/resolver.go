package identity

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// SessionLookup resolves a session key to the email it was issued for.
type SessionLookup interface {
	EmailForSession(ctx context.Context, sessionKey string) (string, error)
}

type Resolver struct {
	sessions SessionLookup
	logger   *zap.SugaredLogger
}

func NewResolver(sessions SessionLookup, logger *zap.Logger) *Resolver {
	return &Resolver{sessions: sessions, logger: logger.Sugar()}
}

// Resolve never fails: a missing, unknown or broken session yields
// Anonymous.
func (r *Resolver) Resolve(ctx context.Context, sessionKey string) Identity {
	if sessionKey == "" {
		return Anonymous()
	}
	email, err := r.sessions.EmailForSession(ctx, sessionKey)
	if err != nil {
		r.logger.Debugw("Session did not resolve, treating caller as anonymous", "error", err)
		return Anonymous()
	}
	if email == "" {
		return Anonymous()
	}
	return Identified(email)
}

const SessionCookie = "session_key"

// SessionKeyFromRequest extracts the session key from the Authorization
// bearer header, the session_key query parameter or the session cookie, in
// that order.
func SessionKeyFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if key := r.URL.Query().Get("session_key"); key != "" {
		return key
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
