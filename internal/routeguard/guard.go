package routeguard

import (
	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/session"
)

// DecisionKind tags the outcome of a guard evaluation.
type DecisionKind int

const (
	// DecisionLoading means the session has not resolved yet: serve the
	// neutral loading placeholder, neither the view nor a redirect.
	DecisionLoading DecisionKind = iota
	// DecisionRender means the guarded view may be served.
	DecisionRender
	// DecisionRedirect carries the target path to navigate to instead.
	DecisionRedirect
)

// Decision is the guard's verdict. The guard itself has no side effects; the
// middleware at the call site applies the redirect or render.
type Decision struct {
	Kind   DecisionKind
	Target string
}

func render() Decision  { return Decision{Kind: DecisionRender} }
func loading() Decision { return Decision{Kind: DecisionLoading} }
func redirect(target string) Decision {
	return Decision{Kind: DecisionRedirect, Target: target}
}

// Rule declares one role-gated route: its path, the roles allowed to see it,
// and where to send an unauthenticated visitor (defaults to the general
// login surface).
type Rule struct {
	Path         string
	AllowedRoles []identity.Role
	RedirectTo   string
}

func (r Rule) unauthenticatedTarget() string {
	if r.RedirectTo != "" {
		return r.RedirectTo
	}
	return PathLogin
}

func (r Rule) allows(role identity.Role) bool {
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Evaluate decides what to do with a navigation to a guarded route. It is a
// pure function of (session snapshot, rule); first match wins:
//
//  1. session still resolving -> loading placeholder
//  2. not authenticated -> redirect to the rule's unauthenticated target
//  3. wrong role -> redirect to that role's landing page
//  4. otherwise -> render
func Evaluate(snap session.Snapshot, rule Rule) Decision {
	if snap.Loading || !snap.Resolved {
		return loading()
	}

	if !snap.Authenticated || snap.Identity == nil {
		return redirect(rule.unauthenticatedTarget())
	}

	role := snap.Identity.Role
	if !rule.allows(role) {
		return redirect(LandingFor(role))
	}

	return render()
}

// EvaluatePublic decides what to do with a navigation to a public auth
// surface (login, register, ...). An already-authenticated visitor is sent
// to their landing page instead of being shown a login form.
func EvaluatePublic(snap session.Snapshot) Decision {
	if snap.Loading || !snap.Resolved {
		return loading()
	}
	if snap.Authenticated && snap.Identity != nil {
		return redirect(DefaultRedirect(snap))
	}
	return render()
}

// LandingFor maps a role to its landing page. An unrecognized role is
// treated as an invalid session and lands on the login surface.
func LandingFor(role identity.Role) string {
	switch role {
	case identity.RoleAdmin:
		return PathAdminUsers
	case identity.RoleUser, identity.RoleLeader:
		return PathDashboard
	default:
		return PathLogin
	}
}
