package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"codearena-gateway/internal/domain/group"
	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/credential"
)

// HTTPAdmin talks to the platform's admin endpoints. Role enforcement is
// double-sided: the route guard gates the views locally and the platform
// checks the credential again.
type HTTPAdmin struct {
	client *Client
}

var _ AdminAPI = (*HTTPAdmin)(nil)

func NewHTTPAdmin(client *Client) *HTTPAdmin {
	return &HTTPAdmin{client: client}
}

type wireUserPage struct {
	Users      []identity.WireUser `json:"users"`
	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

func (a *HTTPAdmin) Users(ctx context.Context, cred credential.Ambient, page, limit int) (*UserPage, error) {
	path := "/admin/users"
	params := url.Values{}
	if page > 0 {
		params.Set("page", fmt.Sprintf("%d", page))
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var wire wireUserPage
	if _, err := a.client.do(ctx, http.MethodGet, path, cred, nil, &wire); err != nil {
		return nil, err
	}

	result := &UserPage{
		Users:      make([]identity.Identity, 0, len(wire.Users)),
		Page:       wire.Pagination.Page,
		Limit:      wire.Pagination.Limit,
		Total:      wire.Pagination.Total,
		TotalPages: wire.Pagination.TotalPages,
	}
	for _, w := range wire.Users {
		if id, err := identity.Normalize(w); err == nil {
			result.Users = append(result.Users, *id)
		}
	}
	return result, nil
}

func (a *HTTPAdmin) PendingGroups(ctx context.Context, cred credential.Ambient) ([]group.Group, error) {
	var wires []wireGroup
	if _, err := a.client.do(ctx, http.MethodGet, "/admin/groups/pending", cred, nil, &wires); err != nil {
		return nil, err
	}
	return normalizeGroups(wires), nil
}

func (a *HTTPAdmin) ApproveGroup(ctx context.Context, cred credential.Ambient, groupID string) (*group.Group, error) {
	return a.moderateGroup(ctx, cred, groupID, "approve")
}

func (a *HTTPAdmin) RejectGroup(ctx context.Context, cred credential.Ambient, groupID string) (*group.Group, error) {
	return a.moderateGroup(ctx, cred, groupID, "reject")
}

func (a *HTTPAdmin) moderateGroup(ctx context.Context, cred credential.Ambient, groupID, action string) (*group.Group, error) {
	var wire wireGroup
	path := "/admin/groups/" + groupID + "/" + action
	if _, err := a.client.do(ctx, http.MethodPatch, path, cred, nil, &wire); err != nil {
		return nil, err
	}
	g, err := normalizeGroup(wire)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
