// Package bootstrap resolves "who is logged in" for a gateway session by
// asking the platform API, exactly once per session lifetime unless a
// login/logout resets the state.
package bootstrap

import (
	"context"
	"errors"
	"time"

	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/credential"
	xerrors "codearena-gateway/internal/pkg/errors"
	"codearena-gateway/internal/pkg/session"

	"go.uber.org/zap"
)

// ProfileAPI is the slice of the identity collaborator the bootstrapper
// needs.
type ProfileAPI interface {
	Profile(ctx context.Context, cred credential.Ambient) (*identity.Identity, error)
}

// Bootstrapper drives profile resolution for session stores. Ensure is safe
// to call on every request; the store's BeginResolution gate keeps it
// single-flight per session.
type Bootstrapper struct {
	api            ProfileAPI
	resolveTimeout time.Duration
	logger         *zap.Logger

	// now is swapped in tests to pin the expiry fast path.
	now func() time.Time
}

func New(api ProfileAPI, resolveTimeout time.Duration, logger *zap.Logger) *Bootstrapper {
	return &Bootstrapper{
		api:            api,
		resolveTimeout: resolveTimeout,
		logger:         logger,
		now:            time.Now,
	}
}

// Ensure makes sure a resolution has been started for the session and waits
// for it up to the context deadline. It returns true when the session is
// resolved, false when the caller should render the loading placeholder.
func (b *Bootstrapper) Ensure(ctx context.Context, cred credential.Ambient, store *session.Store) bool {
	if store.Resolved() {
		return true
	}

	if store.BeginResolution() {
		go b.resolve(cred, store)
	}

	return store.WaitResolved(ctx)
}

func (b *Bootstrapper) resolve(cred credential.Ambient, store *session.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), b.resolveTimeout)
	defer cancel()

	if cred.IsZero() {
		store.ResolveFailure("")
		return
	}
	if cred.ExpiredBefore(b.now()) {
		// The credential carries its own expiry; no point asking upstream.
		store.ResolveFailure("session expired")
		return
	}

	id, err := b.api.Profile(ctx, cred)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrUnauthenticated):
			store.ResolveFailure("")
		case errors.Is(err, xerrors.ErrMalformedWire):
			b.logger.Warn("profile payload malformed, treating as unauthenticated", zap.Error(err))
			store.ResolveFailure("profile unavailable")
		default:
			b.logger.Warn("profile resolution failed", zap.Error(err))
			store.ResolveFailure("profile unavailable")
		}
		return
	}

	store.ResolveSuccess(id)
}
