package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"codearena-gateway/internal/pkg/credential"
	xerrors "codearena-gateway/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// envelope is the platform API's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Client is the shared HTTP transport for all upstream clients. Every call
// carries a deadline; a call that would otherwise hang forever instead fails
// and is mapped to the unauthenticated path by the bootstrapper.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		logger:  logger,
	}
}

// do executes one upstream call: forwards the ambient credential, decodes the
// response envelope into out, and returns the response cookies so login can
// capture the credential the collaborator establishes.
func (c *Client) do(ctx context.Context, method, path string, cred credential.Ambient, body, out interface{}) ([]*http.Cookie, error) {
	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		buf = bytes.NewBuffer(data)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req_"+ulid.Make().String())
	if !cred.IsZero() {
		req.AddCookie(cred.Cookie())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upstream call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, xerrors.Wrap(xerrors.ErrUpstream, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return resp.Cookies(), xerrors.ErrUnauthenticated
	case resp.StatusCode == http.StatusNotFound:
		return resp.Cookies(), xerrors.ErrNotFound
	case resp.StatusCode >= 500:
		return resp.Cookies(), xerrors.Wrap(xerrors.ErrUpstream, fmt.Sprintf("status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.Cookies(), xerrors.Wrap(xerrors.ErrMalformedWire, err.Error())
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return resp.Cookies(), fmt.Errorf("upstream rejected request: %s", msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.Cookies(), xerrors.Wrap(xerrors.ErrMalformedWire, err.Error())
		}
	}
	return resp.Cookies(), nil
}
