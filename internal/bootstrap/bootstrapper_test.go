package bootstrap

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/credential"
	xerrors "codearena-gateway/internal/pkg/errors"
	"codearena-gateway/internal/pkg/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProfileAPI struct {
	calls int32
	id    *identity.Identity
	err   error
	delay time.Duration
}

func (f *fakeProfileAPI) Profile(ctx context.Context, cred credential.Ambient) (*identity.Identity, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.id, nil
}

func (f *fakeProfileAPI) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func testCred() credential.Ambient {
	return credential.Ambient{Name: "token", Value: "opaque-value"}
}

func expiredJWTCred(t *testing.T) credential.Ambient {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return credential.Ambient{Name: "token", Value: signed}
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestEnsureResolvesSuccessfully(t *testing.T) {
	api := &fakeProfileAPI{id: &identity.Identity{ID: "u-1", Username: "alice", Role: identity.RoleUser}}
	b := New(api, time.Second, zap.NewNop())
	store := session.NewStore()

	require.True(t, b.Ensure(waitCtx(t), testCred(), store))

	snap := store.Snapshot()
	assert.True(t, snap.Authenticated)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "alice", snap.Identity.Username)
}

func TestEnsureWithoutCredentialResolvesAnonymous(t *testing.T) {
	api := &fakeProfileAPI{}
	b := New(api, time.Second, zap.NewNop())
	store := session.NewStore()

	require.True(t, b.Ensure(waitCtx(t), credential.Ambient{Name: "token"}, store))

	snap := store.Snapshot()
	assert.True(t, snap.Resolved)
	assert.False(t, snap.Authenticated)
	assert.Equal(t, 0, api.callCount(), "no upstream call without a credential")
}

func TestEnsureExpiredCredentialSkipsUpstream(t *testing.T) {
	api := &fakeProfileAPI{}
	b := New(api, time.Second, zap.NewNop())
	store := session.NewStore()

	require.True(t, b.Ensure(waitCtx(t), expiredJWTCred(t), store))

	snap := store.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Equal(t, "session expired", snap.LastError)
	assert.Equal(t, 0, api.callCount())
}

func TestEnsureRejectedCredentialResolvesAnonymous(t *testing.T) {
	api := &fakeProfileAPI{err: xerrors.ErrUnauthenticated}
	b := New(api, time.Second, zap.NewNop())
	store := session.NewStore()

	require.True(t, b.Ensure(waitCtx(t), testCred(), store))

	snap := store.Snapshot()
	assert.True(t, snap.Resolved)
	assert.False(t, snap.Authenticated)
	assert.Empty(t, snap.LastError, "a rejected credential is the normal logged-out case")
}

func TestEnsureUpstreamFailureRecordsError(t *testing.T) {
	api := &fakeProfileAPI{err: xerrors.ErrUpstream}
	b := New(api, time.Second, zap.NewNop())
	store := session.NewStore()

	require.True(t, b.Ensure(waitCtx(t), testCred(), store))

	snap := store.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Equal(t, "profile unavailable", snap.LastError)
}

func TestEnsureIsSingleFlight(t *testing.T) {
	api := &fakeProfileAPI{
		id:    &identity.Identity{ID: "u-1", Username: "alice", Role: identity.RoleUser},
		delay: 50 * time.Millisecond,
	}
	b := New(api, time.Second, zap.NewNop())
	store := session.NewStore()

	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() {
			b.Ensure(waitCtx(t), testCred(), store)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Ensure did not return")
		}
	}

	assert.Equal(t, 1, api.callCount(), "concurrent Ensures must share one resolution")
}

func TestEnsureTimeoutServesLoading(t *testing.T) {
	api := &fakeProfileAPI{
		id:    &identity.Identity{ID: "u-1", Username: "alice", Role: identity.RoleUser},
		delay: 500 * time.Millisecond,
	}
	b := New(api, time.Second, zap.NewNop())
	store := session.NewStore()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.False(t, b.Ensure(ctx, testCred(), store), "caller should fall back to the loading placeholder")

	// The resolution keeps running in the background and lands eventually.
	require.True(t, b.Ensure(waitCtx(t), testCred(), store))
	assert.True(t, store.Snapshot().Authenticated)
	assert.Equal(t, 1, api.callCount())
}

func TestEnsureSkipsResolvedSessions(t *testing.T) {
	api := &fakeProfileAPI{}
	b := New(api, time.Second, zap.NewNop())
	store := session.NewStore()
	store.Login(&identity.Identity{ID: "u-1", Username: "alice", Role: identity.RoleUser})

	require.True(t, b.Ensure(waitCtx(t), testCred(), store))
	assert.Equal(t, 0, api.callCount())
}
