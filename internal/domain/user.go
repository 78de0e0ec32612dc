package domain

import (
	"context"
	"errors"
	"time"
)

// User represents a back-office staff member.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Active         bool
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin has full access, including user management and reversals.
	RoleAdmin Role = "admin"

	// RoleOperator can record purchases, sales, and settlements.
	RoleOperator Role = "operator"

	// RoleViewer can only read records and reports, no mutations.
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanMutate checks if the role can record sales and settlements.
func (r Role) CanMutate() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanReverse checks if the role can reverse a settlement.
func (r Role) CanReverse() bool {
	return r == RoleAdmin
}

// CanManageUsers checks if the role can manage user accounts.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// CanViewAll checks if the role can read records and reports.
func (r Role) CanViewAll() bool {
	return r.IsValid()
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
)

type userContextKey struct{}

// ContextWithUser attaches the authenticated user to the context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}
