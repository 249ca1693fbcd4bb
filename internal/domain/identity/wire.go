package identity

import (
	"time"

	xerrors "codearena-gateway/internal/pkg/errors"
)

// WireUser is the identity payload as the platform API sends it. Field names
// vary between API iterations (the Mongo-era `_id` vs `id`, `name` vs
// `username`), so normalization tolerates both spellings.
type WireUser struct {
	MongoID    string    `json:"_id"`
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Normalize validates a wire payload against the closed role set and required
// fields and converts it to an Identity. A payload that fails here is treated
// as unauthenticated by callers; a partially-valid identity never escapes.
func Normalize(w WireUser) (*Identity, error) {
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	if id == "" {
		return nil, xerrors.Wrap(xerrors.ErrMalformedWire, "identity missing id")
	}
	if w.Email == "" {
		return nil, xerrors.Wrap(xerrors.ErrMalformedWire, "identity missing email")
	}

	role, err := ParseRole(w.Role)
	if err != nil {
		return nil, xerrors.Wrap(err, "identity role")
	}

	username := w.Username
	if username == "" {
		username = w.Name
	}
	if username == "" {
		username = w.Email
	}

	return &Identity{
		ID:        id,
		Username:  username,
		Email:     w.Email,
		Role:      role,
		Verified:  w.IsVerified,
		CreatedAt: w.CreatedAt,
	}, nil
}
