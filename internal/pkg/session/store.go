package session

import (
	"context"
	"sync"

	"codearena-gateway/internal/domain/identity"
)

// Snapshot is a read-only view of a session, handed to the route guard and
// navigation handlers. Authenticated is derived state: it is true iff an
// identity is present and the last resolution succeeded.
type Snapshot struct {
	Identity      *identity.Identity
	Provisional   *identity.Identity
	Loading       bool
	Authenticated bool
	LastError     string
	Resolved      bool
}

// Role returns the session's role, or "" when unauthenticated.
func (s Snapshot) Role() identity.Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// Store is the single source of truth for "who is using this session right
// now". It is mutated through exactly three writer pathways: the profile
// bootstrapper (BeginResolution/ResolveSuccess/ResolveFailure), the login
// action, and the logout action. Everything else reads Snapshot.
type Store struct {
	mu            sync.Mutex
	identity      *identity.Identity
	provisional   *identity.Identity
	loading       bool
	authenticated bool
	lastErr       string

	// resolved flips to true when the first resolution (or an explicit
	// login/logout) completes, closing resolvedCh and releasing navigations
	// that were waiting on bootstrap. Only Invalidate flips it back.
	resolved   bool
	resolvedCh chan struct{}

	// gen guards against a stale in-flight resolution landing after a
	// login/logout already replaced the session state.
	gen        int
	pendingGen int
}

func NewStore() *Store {
	return &Store{resolvedCh: make(chan struct{})}
}

// RestoreProvisional seeds the store with a persisted last-known identity.
// The copy is display-only: it does not authenticate the session and must be
// reconciled by a fresh resolution.
func (s *Store) RestoreProvisional(id *identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved || s.loading {
		return
	}
	s.provisional = id
}

// BeginResolution marks a profile resolution as outstanding. It returns false
// when one is already in flight, so re-entrant bootstrapping never issues a
// second remote call.
func (s *Store) BeginResolution() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	s.lastErr = ""
	s.pendingGen = s.gen
	return true
}

// ResolveSuccess installs a freshly resolved identity. It overwrites any
// previous identity, which is what supports re-resolution after a token
// refresh.
func (s *Store) ResolveSuccess(id *identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingGen != s.gen {
		// A login/logout superseded this resolution while it was in flight.
		s.loading = false
		return
	}
	s.identity = id
	s.provisional = nil
	s.authenticated = true
	s.loading = false
	s.lastErr = ""
	s.markResolvedLocked()
}

// ResolveFailure records the expected "not logged in" outcome: missing,
// expired or rejected ambient credential, transport failure, or a malformed
// identity payload.
func (s *Store) ResolveFailure(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingGen != s.gen {
		s.loading = false
		return
	}
	s.identity = nil
	s.provisional = nil
	s.authenticated = false
	s.loading = false
	s.lastErr = reason
	s.markResolvedLocked()
}

// Login installs an identity straight from a successful interactive login,
// without a second resolution round-trip.
func (s *Store) Login(id *identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.identity = id
	s.provisional = nil
	s.authenticated = true
	s.loading = false
	s.lastErr = ""
	s.markResolvedLocked()
}

// Logout tears the session down. The caller is responsible for purging the
// persisted copy so a reload does not resurrect stale state.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.identity = nil
	s.provisional = nil
	s.authenticated = false
	s.loading = false
	s.lastErr = ""
	s.markResolvedLocked()
}

// Invalidate discards the current resolution so the next bootstrap issues a
// fresh remote call, for when the ambient credential changes out of band.
// The identity stays in place until the re-resolution lands, so navigation
// does not flicker through the loading state.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.loading = false
	if s.resolved {
		s.resolved = false
		s.resolvedCh = make(chan struct{})
	}
}

// Snapshot returns a consistent read of the session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Identity:      s.identity,
		Provisional:   s.provisional,
		Loading:       s.loading,
		Authenticated: s.authenticated,
		LastError:     s.lastErr,
		Resolved:      s.resolved,
	}
}

// Resolved reports whether at least one resolution (or an explicit
// login/logout) has completed.
func (s *Store) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// WaitResolved blocks until the session has resolved at least once or the
// context expires. It returns false on timeout, in which case the caller
// serves the loading placeholder.
func (s *Store) WaitResolved(ctx context.Context) bool {
	select {
	case <-s.resolvedCh:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Store) markResolvedLocked() {
	if !s.resolved {
		s.resolved = true
		close(s.resolvedCh)
	}
}
