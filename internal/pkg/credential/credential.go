package credential

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ambient is the credential the browser attaches automatically (the upstream
// auth cookie). The gateway never mints or validates it; it only forwards it
// to the platform API, which is the source of truth.
type Ambient struct {
	Name  string
	Value string
}

// IsZero reports whether no ambient credential was presented.
func (a Ambient) IsZero() bool {
	return a.Value == ""
}

// FromRequest extracts the ambient credential cookie from an incoming
// request, if present.
func FromRequest(r *http.Request, cookieName string) (Ambient, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return Ambient{Name: cookieName}, false
	}
	return Ambient{Name: cookieName, Value: c.Value}, true
}

// Cookie renders the credential back as a cookie for forwarding upstream.
func (a Ambient) Cookie() *http.Cookie {
	return &http.Cookie{Name: a.Name, Value: a.Value}
}

// ExpiredBefore reports whether the credential is a JWT whose exp claim is
// already past. This is a client-side fast path only: the signature is NOT
// checked (the upstream API does that), so a parse failure or a missing exp
// means "ask upstream anyway" and returns false.
func (a Ambient) ExpiredBefore(now time.Time) bool {
	if a.IsZero() {
		return false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(a.Value, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
