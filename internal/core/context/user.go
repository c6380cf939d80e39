// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"slices"
)

// UserContext is the authenticated principal of a request.
// It is supplied by the identity provider's token; this service never issues credentials.
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the principal carries role.
func (u *UserContext) HasRole(role string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Roles, role)
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	return GetUser(ctx).HasRole(role)
}
