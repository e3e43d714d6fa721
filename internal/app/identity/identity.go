// Package identity models the resolved caller of a request.
//
// An Identity is either anonymous or identified by an email address.
// Board ownership is never stored on an Identity: it is derived per board
// by the authz package.
package identity

import (
	"context"
	"strings"
)

type Identity struct {
	email string
}

func Anonymous() Identity {
	return Identity{}
}

// Identified returns an identity for email. Emails are compared
// case-insensitively, so the address is normalized here once.
func Identified(email string) Identity {
	return Identity{email: NormalizeEmail(email)}
}

func (i Identity) IsAnonymous() bool {
	return i.email == ""
}

func (i Identity) Email() string {
	return i.email
}

func (i Identity) String() string {
	if i.IsAnonymous() {
		return "anonymous"
	}
	return i.email
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored on ctx, or Anonymous.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok {
		return id
	}
	return Anonymous()
}
