package upstream

import (
	"context"
	"net/http"

	"codearena-gateway/internal/domain/competition"
	"codearena-gateway/internal/pkg/credential"
)

// HTTPCompetitions talks to the platform's competition and duel endpoints.
type HTTPCompetitions struct {
	client *Client
}

var _ CompetitionAPI = (*HTTPCompetitions)(nil)

func NewHTTPCompetitions(client *Client) *HTTPCompetitions {
	return &HTTPCompetitions{client: client}
}

func (a *HTTPCompetitions) CreateCompetition(ctx context.Context, cred credential.Ambient, req competition.CreateCompetitionRequest) (*competition.Competition, error) {
	var comp competition.Competition
	if _, err := a.client.do(ctx, http.MethodPost, "/competitions", cred, req, &comp); err != nil {
		return nil, err
	}
	return &comp, nil
}

func (a *HTTPCompetitions) CreateDuel(ctx context.Context, cred credential.Ambient, req competition.CreateDuelRequest) (*competition.Duel, error) {
	var duel competition.Duel
	if _, err := a.client.do(ctx, http.MethodPost, "/duels", cred, req, &duel); err != nil {
		return nil, err
	}
	return &duel, nil
}
