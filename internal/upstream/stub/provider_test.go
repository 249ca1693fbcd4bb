package stub

import (
	"context"
	"testing"

	"codearena-gateway/internal/domain/group"
	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/credential"
	xerrors "codearena-gateway/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProvider() *Provider {
	return NewProvider("token", zap.NewNop())
}

func login(t *testing.T, p *Provider, email string) credential.Ambient {
	t.Helper()
	_, cred, err := p.Login(context.Background(), email, DemoPassword)
	require.NoError(t, err)
	return cred
}

func TestLoginAndProfileRoundTrip(t *testing.T) {
	p := newTestProvider()

	id, cred, err := p.Login(context.Background(), "alice@codearena.dev", DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, identity.RoleUser, id.Role)
	assert.Equal(t, "token", cred.Name)
	assert.NotEmpty(t, cred.Value)

	resolved, err := p.Profile(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, id.ID, resolved.ID)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	p := newTestProvider()
	_, _, err := p.Login(context.Background(), "alice@codearena.dev", "wrong")
	assert.Error(t, err)
}

func TestLoginRejectsUnverifiedAccount(t *testing.T) {
	p := newTestProvider()
	_, _, err := p.Login(context.Background(), "diana@codearena.dev", DemoPassword)
	assert.ErrorContains(t, err, "not verified")
}

func TestProfileRejectsUnknownCredential(t *testing.T) {
	p := newTestProvider()

	_, err := p.Profile(context.Background(), credential.Ambient{})
	assert.ErrorIs(t, err, xerrors.ErrUnauthenticated)

	_, err = p.Profile(context.Background(), credential.Ambient{Name: "token", Value: "bogus"})
	assert.ErrorIs(t, err, xerrors.ErrUnauthenticated)
}

func TestLogoutInvalidatesCredential(t *testing.T) {
	p := newTestProvider()
	cred := login(t, p, "alice@codearena.dev")

	require.NoError(t, p.Logout(context.Background(), cred))

	_, err := p.Profile(context.Background(), cred)
	assert.ErrorIs(t, err, xerrors.ErrUnauthenticated)
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	_, err := p.Register(ctx, "newbie", "newbie@codearena.dev", "Str0ngPass!")
	require.NoError(t, err)

	// Unverified accounts cannot log in yet.
	_, _, err = p.Login(ctx, "newbie@codearena.dev", "Str0ngPass!")
	require.Error(t, err)

	_, err = p.VerifyOTP(ctx, "newbie@codearena.dev", demoOTP)
	require.NoError(t, err)

	id, _, err := p.Login(ctx, "newbie@codearena.dev", "Str0ngPass!")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleUser, id.Role, "registrations always start as USER")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	p := newTestProvider()
	_, err := p.Register(context.Background(), "dupe", "alice@codearena.dev", "Str0ngPass!")
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestResetPasswordFlow(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()

	_, err := p.ResetPassword(ctx, "alice@codearena.dev", demoOTP, "NewPass456!")
	require.NoError(t, err)

	_, _, err = p.Login(ctx, "alice@codearena.dev", DemoPassword)
	assert.Error(t, err, "old password must stop working")

	_, _, err = p.Login(ctx, "alice@codearena.dev", "NewPass456!")
	assert.NoError(t, err)
}

func TestListShowsOnlyApprovedGroups(t *testing.T) {
	p := newTestProvider()
	cred := login(t, p, "alice@codearena.dev")

	groups, err := p.List(context.Background(), cred)
	require.NoError(t, err)
	require.NotEmpty(t, groups)
	for _, g := range groups {
		assert.Equal(t, group.StatusApproved, g.Status)
	}
}

func TestJoinAndLeaveGroup(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()
	cred := login(t, p, "eve@codearena.dev")

	require.NoError(t, p.Join(ctx, cred, "g-dp"))
	assert.ErrorIs(t, p.Join(ctx, cred, "g-dp"), xerrors.ErrConflict)

	mine, err := p.MyGroups(ctx, cred)
	require.NoError(t, err)
	names := make([]string, 0, len(mine))
	for _, g := range mine {
		names = append(names, g.Name)
	}
	assert.Contains(t, names, "Dynamic Programmers")

	require.NoError(t, p.Leave(ctx, cred, "g-dp"))
	assert.ErrorIs(t, p.Leave(ctx, cred, "g-dp"), xerrors.ErrNotFound)
}

func TestJoinRejectsPendingGroup(t *testing.T) {
	p := newTestProvider()
	cred := login(t, p, "eve@codearena.dev")
	assert.Error(t, p.Join(context.Background(), cred, "g-graphs"))
}

func TestCreateGroupStartsPending(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()
	cred := login(t, p, "bob@codearena.dev")

	g, err := p.Create(ctx, cred, group.CreateRequest{Name: "Tree Huggers", Topics: []string{"trees"}})
	require.NoError(t, err)
	assert.Equal(t, group.StatusPending, g.Status)
	require.NotNil(t, g.Leader)
	assert.Equal(t, "bob", g.Leader.Username)
	assert.Equal(t, 1, g.MemberCount)
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	p := newTestProvider()
	userCred := login(t, p, "alice@codearena.dev")

	_, err := p.Users(context.Background(), userCred, 1, 20)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	_, err = p.PendingGroups(context.Background(), userCred)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestAdminUsersPagination(t *testing.T) {
	p := newTestProvider()
	cred := login(t, p, "admin@codearena.dev")

	page, err := p.Users(context.Background(), cred, 1, 3)
	require.NoError(t, err)
	assert.Len(t, page.Users, 3)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	last, err := p.Users(context.Background(), cred, 3, 3)
	require.NoError(t, err)
	assert.Len(t, last.Users, 1)
}

func TestGroupModeration(t *testing.T) {
	p := newTestProvider()
	ctx := context.Background()
	cred := login(t, p, "admin@codearena.dev")

	pending, err := p.PendingGroups(ctx, cred)
	require.NoError(t, err)
	require.NotEmpty(t, pending)

	g, err := p.ApproveGroup(ctx, cred, "g-graphs")
	require.NoError(t, err)
	assert.Equal(t, group.StatusApproved, g.Status)

	// A moderated group cannot be moderated again.
	_, err = p.RejectGroup(ctx, cred, "g-graphs")
	assert.Error(t, err)
}
