package routeguard

import (
	"testing"

	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadingSnap() session.Snapshot {
	return session.Snapshot{Loading: true}
}

func anonSnap() session.Snapshot {
	return session.Snapshot{Resolved: true}
}

func authedSnap(role identity.Role) session.Snapshot {
	return session.Snapshot{
		Identity:      &identity.Identity{ID: "u-1", Username: "alice", Role: role, Verified: true},
		Authenticated: true,
		Resolved:      true,
	}
}

func userRule() Rule {
	return Rule{Path: PathDashboard, AllowedRoles: []identity.Role{identity.RoleUser, identity.RoleLeader}}
}

func adminRule() Rule {
	return Rule{Path: PathAdminUsers, AllowedRoles: []identity.Role{identity.RoleAdmin}, RedirectTo: PathAdminLogin}
}

func TestEvaluateLoadingGatesEverything(t *testing.T) {
	// While the session resolves, no verdict leaks: not the view, not a
	// redirect.
	for _, rule := range [][]Rule{UserRoutes, AdminRoutes} {
		for _, r := range rule {
			d := Evaluate(loadingSnap(), r)
			assert.Equal(t, DecisionLoading, d.Kind, "path %s", r.Path)
			assert.Empty(t, d.Target)
		}
	}
}

func TestEvaluateUnresolvedCountsAsLoading(t *testing.T) {
	d := Evaluate(session.Snapshot{}, userRule())
	assert.Equal(t, DecisionLoading, d.Kind)
}

func TestEvaluateUnauthenticatedRedirectsToLogin(t *testing.T) {
	d := Evaluate(anonSnap(), userRule())
	require.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, PathLogin, d.Target)
}

func TestEvaluateUnauthenticatedAdminRouteUsesAdminLogin(t *testing.T) {
	d := Evaluate(anonSnap(), adminRule())
	require.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, PathAdminLogin, d.Target)
}

func TestEvaluateRoleMismatchLandsOnOwnSurface(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		rule Rule
		want string
	}{
		{"user on admin route", authedSnap(identity.RoleUser), adminRule(), PathDashboard},
		{"leader on admin route", authedSnap(identity.RoleLeader), adminRule(), PathDashboard},
		{"admin on user route", authedSnap(identity.RoleAdmin), userRule(), PathAdminUsers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.snap, tt.rule)
			require.Equal(t, DecisionRedirect, d.Kind)
			assert.Equal(t, tt.want, d.Target)
		})
	}
}

func TestEvaluateMatchingRoleRenders(t *testing.T) {
	assert.Equal(t, DecisionRender, Evaluate(authedSnap(identity.RoleUser), userRule()).Kind)
	assert.Equal(t, DecisionRender, Evaluate(authedSnap(identity.RoleLeader), userRule()).Kind)
	assert.Equal(t, DecisionRender, Evaluate(authedSnap(identity.RoleAdmin), adminRule()).Kind)
}

func TestEvaluatePublic(t *testing.T) {
	assert.Equal(t, DecisionLoading, EvaluatePublic(loadingSnap()).Kind)
	assert.Equal(t, DecisionRender, EvaluatePublic(anonSnap()).Kind)

	d := EvaluatePublic(authedSnap(identity.RoleUser))
	require.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, PathDashboard, d.Target)

	d = EvaluatePublic(authedSnap(identity.RoleAdmin))
	require.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, PathAdminUsers, d.Target)
}

func TestDefaultRedirectAgreesWithGuard(t *testing.T) {
	// The resolver and the guard must never disagree, or a visitor would
	// bounce between "/" and a guarded route forever.
	roles := []identity.Role{identity.RoleUser, identity.RoleLeader, identity.RoleAdmin}
	for _, role := range roles {
		snap := authedSnap(role)
		target := DefaultRedirect(snap)
		assert.Equal(t, LandingFor(role), target, "role %s", role)

		// The landing target must render for its own role in some table.
		var rendered bool
		for _, rule := range append(append([]Rule{}, UserRoutes...), AdminRoutes...) {
			if rule.Path == target && Evaluate(snap, rule).Kind == DecisionRender {
				rendered = true
			}
		}
		assert.True(t, rendered, "landing page for %s must render for that role", role)
	}
}

func TestDefaultRedirectUnauthenticated(t *testing.T) {
	assert.Equal(t, PathLogin, DefaultRedirect(anonSnap()))
}

func TestLandingForUnknownRoleFallsBackToLogin(t *testing.T) {
	assert.Equal(t, PathLogin, LandingFor(identity.Role("SUPERVISOR")))
	assert.Equal(t, PathLogin, LandingFor(""))
}

func TestRouteTablesCoverEveryDeclaredPath(t *testing.T) {
	assert.Len(t, AuthRoutes, 6)
	for _, rule := range AuthRoutes {
		assert.Empty(t, rule.AllowedRoles, "auth surfaces carry no role set")
	}
	for _, rule := range AdminRoutes {
		assert.Equal(t, PathAdminLogin, rule.RedirectTo)
		assert.Equal(t, []identity.Role{identity.RoleAdmin}, rule.AllowedRoles)
	}
	for _, rule := range UserRoutes {
		assert.ElementsMatch(t, []identity.Role{identity.RoleUser, identity.RoleLeader}, rule.AllowedRoles)
	}
}
