package credential

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedJWT(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: "abc"})

	cred, ok := FromRequest(r, "token")
	assert.True(t, ok)
	assert.Equal(t, Ambient{Name: "token", Value: "abc"}, cred)

	missing, ok := FromRequest(httptest.NewRequest(http.MethodGet, "/", nil), "token")
	assert.False(t, ok)
	assert.True(t, missing.IsZero())
	assert.Equal(t, "token", missing.Name, "name is kept for later cookie writes")
}

func TestExpiredBefore(t *testing.T) {
	now := time.Now()

	expired := Ambient{Name: "token", Value: signedJWT(t, jwt.MapClaims{
		"sub": "u-1",
		"exp": now.Add(-time.Minute).Unix(),
	})}
	assert.True(t, expired.ExpiredBefore(now))

	live := Ambient{Name: "token", Value: signedJWT(t, jwt.MapClaims{
		"sub": "u-1",
		"exp": now.Add(time.Hour).Unix(),
	})}
	assert.False(t, live.ExpiredBefore(now))
}

func TestExpiredBeforeAsksUpstreamWhenUndecidable(t *testing.T) {
	now := time.Now()

	// Not a JWT at all: the platform may use opaque credentials.
	opaque := Ambient{Name: "token", Value: "opaque-session-value"}
	assert.False(t, opaque.ExpiredBefore(now))

	// A JWT without an exp claim.
	noExp := Ambient{Name: "token", Value: signedJWT(t, jwt.MapClaims{"sub": "u-1"})}
	assert.False(t, noExp.ExpiredBefore(now))

	// No credential at all.
	assert.False(t, Ambient{}.ExpiredBefore(now))
}
