package auth

import (
	"context"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Role        domain.Role
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// WithSystemContext marks ctx as acting on behalf of the system, for scheduled jobs
func WithSystemContext(ctx context.Context) context.Context {
	return WithUserContext(ctx, &UserContext{DisplayName: "System", Role: domain.RoleSystem})
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// ActorFromContext returns the actor for the authenticated user, or false when there is none
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	user, ok := FromContext(ctx)
	if !ok {
		return domain.Actor{}, false
	}
	return user.Actor(), true
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.Role) bool {
	return u.Role == role
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.Role) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsStaff checks if user is an agent or an admin
func (u *UserContext) IsStaff() bool {
	return u.Role.IsStaff()
}

// Actor converts the user context into the actor commands are issued under
func (u *UserContext) Actor() domain.Actor {
	return domain.Actor{ID: u.UserID, Role: u.Role, Name: u.DisplayName}
}
