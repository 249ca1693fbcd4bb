// Package upstream holds the clients for the platform API, the remote
// collaborator that owns all durable data. The gateway never stores users,
// groups or competitions itself; it forwards the browser's ambient
// credential and renders what the platform answers.
package upstream

import (
	"context"

	"codearena-gateway/internal/domain/competition"
	"codearena-gateway/internal/domain/group"
	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/credential"
)

// IdentityAPI is the contract with the remote identity collaborator.
type IdentityAPI interface {
	// Profile resolves "who is logged in" from the ambient credential alone.
	// An expired or missing credential surfaces as ErrUnauthenticated, which
	// callers treat as "no session", not as a fatal error.
	Profile(ctx context.Context, cred credential.Ambient) (*identity.Identity, error)

	// Login authenticates interactively. On success the collaborator
	// establishes the ambient credential as a side effect; the returned
	// Ambient is that credential, to be replayed onto the browser.
	Login(ctx context.Context, email, password string) (*identity.Identity, credential.Ambient, error)

	// Logout clears the ambient credential upstream. Local session teardown
	// proceeds regardless of the returned error.
	Logout(ctx context.Context, cred credential.Ambient) error

	Register(ctx context.Context, username, email, password string) (string, error)
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	ResendOTP(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error)
}

// GroupAPI exposes group browsing and membership management.
type GroupAPI interface {
	List(ctx context.Context, cred credential.Ambient) ([]group.Group, error)
	MyGroups(ctx context.Context, cred credential.Ambient) ([]group.Group, error)
	Get(ctx context.Context, cred credential.Ambient, groupID string) (*group.Group, error)
	Create(ctx context.Context, cred credential.Ambient, req group.CreateRequest) (*group.Group, error)
	Join(ctx context.Context, cred credential.Ambient, groupID string) error
	Leave(ctx context.Context, cred credential.Ambient, groupID string) error
	IsMember(ctx context.Context, cred credential.Ambient, groupID, userID string) (bool, error)
}

// UserPage is one page of the admin users listing.
type UserPage struct {
	Users      []identity.Identity `json:"users"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"total_pages"`
}

// AdminAPI exposes the administrator operations.
type AdminAPI interface {
	Users(ctx context.Context, cred credential.Ambient, page, limit int) (*UserPage, error)
	PendingGroups(ctx context.Context, cred credential.Ambient) ([]group.Group, error)
	ApproveGroup(ctx context.Context, cred credential.Ambient, groupID string) (*group.Group, error)
	RejectGroup(ctx context.Context, cred credential.Ambient, groupID string) (*group.Group, error)
}

// CompetitionAPI creates competitions and duels. Matchmaking and scoring are
// upstream concerns.
type CompetitionAPI interface {
	CreateCompetition(ctx context.Context, cred credential.Ambient, req competition.CreateCompetitionRequest) (*competition.Competition, error)
	CreateDuel(ctx context.Context, cred credential.Ambient, req competition.CreateDuelRequest) (*competition.Duel, error)
}
