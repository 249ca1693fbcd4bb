package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"codearena-gateway/internal/domain/group"
	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/pkg/credential"
)

// wireGroup is a group as the platform API sends it. Like identities, id
// spelling varies between API iterations.
type wireGroup struct {
	MongoID     string             `json:"_id"`
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Topics      []string           `json:"topics"`
	Leader      *identity.WireUser `json:"leader"`
	Status      string             `json:"status"`
	MemberCount int                `json:"memberCount"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func normalizeGroup(w wireGroup) (group.Group, error) {
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	if id == "" || w.Name == "" {
		return group.Group{}, fmt.Errorf("group payload missing id or name")
	}

	g := group.Group{
		ID:          id,
		Name:        w.Name,
		Description: w.Description,
		Topics:      w.Topics,
		Status:      group.Status(w.Status),
		MemberCount: w.MemberCount,
		CreatedAt:   w.CreatedAt,
	}
	if w.Leader != nil {
		// A leader that fails normalization is displayed as vacant rather
		// than failing the whole listing.
		if leader, err := identity.Normalize(*w.Leader); err == nil {
			g.Leader = leader
		}
	}
	return g, nil
}

func normalizeGroups(wires []wireGroup) []group.Group {
	groups := make([]group.Group, 0, len(wires))
	for _, w := range wires {
		if g, err := normalizeGroup(w); err == nil {
			groups = append(groups, g)
		}
	}
	return groups
}

// HTTPGroups talks to the platform's group endpoints.
type HTTPGroups struct {
	client *Client
}

var _ GroupAPI = (*HTTPGroups)(nil)

func NewHTTPGroups(client *Client) *HTTPGroups {
	return &HTTPGroups{client: client}
}

func (a *HTTPGroups) List(ctx context.Context, cred credential.Ambient) ([]group.Group, error) {
	var wires []wireGroup
	if _, err := a.client.do(ctx, http.MethodGet, "/groups", cred, nil, &wires); err != nil {
		return nil, err
	}
	return normalizeGroups(wires), nil
}

func (a *HTTPGroups) MyGroups(ctx context.Context, cred credential.Ambient) ([]group.Group, error) {
	var wires []wireGroup
	if _, err := a.client.do(ctx, http.MethodGet, "/groups/my-groups", cred, nil, &wires); err != nil {
		return nil, err
	}
	return normalizeGroups(wires), nil
}

func (a *HTTPGroups) Get(ctx context.Context, cred credential.Ambient, groupID string) (*group.Group, error) {
	var wire wireGroup
	if _, err := a.client.do(ctx, http.MethodGet, "/groups/"+groupID, cred, nil, &wire); err != nil {
		return nil, err
	}
	g, err := normalizeGroup(wire)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (a *HTTPGroups) Create(ctx context.Context, cred credential.Ambient, req group.CreateRequest) (*group.Group, error) {
	var wire wireGroup
	if _, err := a.client.do(ctx, http.MethodPost, "/groups", cred, req, &wire); err != nil {
		return nil, err
	}
	g, err := normalizeGroup(wire)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (a *HTTPGroups) Join(ctx context.Context, cred credential.Ambient, groupID string) error {
	_, err := a.client.do(ctx, http.MethodPost, "/groups/"+groupID+"/join", cred, nil, nil)
	return err
}

func (a *HTTPGroups) Leave(ctx context.Context, cred credential.Ambient, groupID string) error {
	_, err := a.client.do(ctx, http.MethodPost, "/groups/"+groupID+"/leave", cred, nil, nil)
	return err
}

func (a *HTTPGroups) IsMember(ctx context.Context, cred credential.Ambient, groupID, userID string) (bool, error) {
	var data struct {
		IsMember bool `json:"isMember"`
	}
	if _, err := a.client.do(ctx, http.MethodGet, "/groups/"+groupID+"/members/"+userID, cred, nil, &data); err != nil {
		return false, err
	}
	return data.IsMember, nil
}
