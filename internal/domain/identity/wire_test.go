package identity

import (
	"testing"

	xerrors "codearena-gateway/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"USER", RoleUser, false},
		{"user", RoleUser, false},
		{" Leader ", RoleLeader, false},
		{"ADMIN", RoleAdmin, false},
		{"admin", RoleAdmin, false},
		{"SUPERVISOR", "", true},
		{"", "", true},
		{"USERS", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, xerrors.ErrUnknownRole, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalizeAcceptsBothIDSpellings(t *testing.T) {
	fromMongo, err := Normalize(WireUser{MongoID: "abc", Email: "a@b.c", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, "abc", fromMongo.ID)

	fromPlain, err := Normalize(WireUser{ID: "xyz", Email: "a@b.c", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, "xyz", fromPlain.ID)

	// Plain id wins when both are present.
	both, err := Normalize(WireUser{MongoID: "abc", ID: "xyz", Email: "a@b.c", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, "xyz", both.ID)
}

func TestNormalizeUsernameFallbacks(t *testing.T) {
	withUsername, err := Normalize(WireUser{ID: "1", Username: "alice", Name: "Alice L", Email: "a@b.c", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, "alice", withUsername.Username)

	withName, err := Normalize(WireUser{ID: "1", Name: "Alice L", Email: "a@b.c", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, "Alice L", withName.Username)

	bare, err := Normalize(WireUser{ID: "1", Email: "a@b.c", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", bare.Username)
}

func TestNormalizeRejectsIncompletePayloads(t *testing.T) {
	_, err := Normalize(WireUser{Email: "a@b.c", Role: "user"})
	assert.ErrorIs(t, err, xerrors.ErrMalformedWire, "missing id")

	_, err = Normalize(WireUser{ID: "1", Role: "user"})
	assert.ErrorIs(t, err, xerrors.ErrMalformedWire, "missing email")

	_, err = Normalize(WireUser{ID: "1", Email: "a@b.c", Role: "owner"})
	assert.ErrorIs(t, err, xerrors.ErrUnknownRole)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleLeader.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("user").Valid(), "lowercase is wire spelling, not a valid Role")
}
