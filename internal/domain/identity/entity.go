package identity

import (
	"strings"
	"time"

	xerrors "codearena-gateway/internal/pkg/errors"
)

// Role is the closed set of navigation roles. Wire values are normalized
// through ParseRole; nothing outside this set ever reaches the session store.
type Role string

const (
	RoleUser   Role = "USER"
	RoleLeader Role = "LEADER"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole normalizes a wire role string (case-insensitive). Unrecognized
// values are rejected, never coerced into a valid role.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleUser):
		return RoleUser, nil
	case string(RoleLeader):
		return RoleLeader, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	default:
		return "", xerrors.ErrUnknownRole
	}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleLeader, RoleAdmin:
		return true
	}
	return false
}

// Identity is the resolved record describing the current authenticated
// principal.
type Identity struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
