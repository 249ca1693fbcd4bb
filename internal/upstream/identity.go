package upstream

import (
	"context"
	"net/http"

	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/credential"
	xerrors "codearena-gateway/internal/pkg/errors"
)

// HTTPIdentity talks to the platform's auth endpoints.
type HTTPIdentity struct {
	client     *Client
	cookieName string
}

var _ IdentityAPI = (*HTTPIdentity)(nil)

func NewHTTPIdentity(client *Client, cookieName string) *HTTPIdentity {
	return &HTTPIdentity{client: client, cookieName: cookieName}
}

func (a *HTTPIdentity) Profile(ctx context.Context, cred credential.Ambient) (*identity.Identity, error) {
	if cred.IsZero() {
		return nil, xerrors.ErrUnauthenticated
	}

	var wire identity.WireUser
	if _, err := a.client.do(ctx, http.MethodGet, "/auth/profile", cred, nil, &wire); err != nil {
		return nil, err
	}
	return identity.Normalize(wire)
}

// loginData is the login response payload; the API nests the user record.
type loginData struct {
	User identity.WireUser `json:"user"`
}

func (a *HTTPIdentity) Login(ctx context.Context, email, password string) (*identity.Identity, credential.Ambient, error) {
	body := map[string]string{"email": email, "password": password}

	var data loginData
	cookies, err := a.client.do(ctx, http.MethodPost, "/auth/login", credential.Ambient{}, body, &data)
	if err != nil {
		return nil, credential.Ambient{}, err
	}

	id, err := identity.Normalize(data.User)
	if err != nil {
		return nil, credential.Ambient{}, err
	}

	cred := credential.Ambient{Name: a.cookieName}
	for _, c := range cookies {
		if c.Name == a.cookieName {
			cred.Value = c.Value
			break
		}
	}
	if cred.IsZero() {
		// The collaborator authenticated us but never set the cookie it
		// promised; treat the login as failed rather than hand back a
		// session that cannot survive a reload.
		return nil, credential.Ambient{}, xerrors.Wrap(xerrors.ErrMalformedWire, "login response missing auth cookie")
	}
	return id, cred, nil
}

func (a *HTTPIdentity) Logout(ctx context.Context, cred credential.Ambient) error {
	_, err := a.client.do(ctx, http.MethodPost, "/auth/logout", cred, nil, nil)
	return err
}

// messageData is the generic {message} payload several auth endpoints return.
type messageData struct {
	Message string `json:"message"`
}

func (a *HTTPIdentity) Register(ctx context.Context, username, email, password string) (string, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var data messageData
	if _, err := a.client.do(ctx, http.MethodPost, "/auth/register", credential.Ambient{}, body, &data); err != nil {
		return "", err
	}
	return data.Message, nil
}

func (a *HTTPIdentity) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	body := map[string]string{"email": email, "otp": otp}
	var data messageData
	if _, err := a.client.do(ctx, http.MethodPost, "/auth/verify-otp", credential.Ambient{}, body, &data); err != nil {
		return "", err
	}
	return data.Message, nil
}

func (a *HTTPIdentity) ResendOTP(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var data messageData
	if _, err := a.client.do(ctx, http.MethodPost, "/auth/resend-otp", credential.Ambient{}, body, &data); err != nil {
		return "", err
	}
	return data.Message, nil
}

func (a *HTTPIdentity) ForgotPassword(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var data messageData
	if _, err := a.client.do(ctx, http.MethodPost, "/auth/forgot-password", credential.Ambient{}, body, &data); err != nil {
		return "", err
	}
	return data.Message, nil
}

func (a *HTTPIdentity) ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error) {
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	var data messageData
	if _, err := a.client.do(ctx, http.MethodPost, "/auth/reset-password", credential.Ambient{}, body, &data); err != nil {
		return "", err
	}
	return data.Message, nil
}
