package routeguard

import "codearena-gateway/internal/pkg/session"

// DefaultRedirect computes the landing path for "/" and unmatched paths as a
// pure function of the current session. It must agree exactly with the
// guard's role-mismatch targets, otherwise the two would bounce a visitor
// back and forth; guard_test.go pins that property.
func DefaultRedirect(snap session.Snapshot) string {
	if !snap.Authenticated || snap.Identity == nil {
		return PathLogin
	}
	return LandingFor(snap.Identity.Role)
}
