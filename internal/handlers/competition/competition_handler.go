package competition

import (
	"errors"
	"net/http"

	"codearena-gateway/internal/domain/competition"
	"codearena-gateway/internal/middleware"
	xerrors "codearena-gateway/internal/pkg/errors"
	"codearena-gateway/internal/pkg/response"
	"codearena-gateway/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CompetitionHandler struct {
	competitionAPI upstream.CompetitionAPI
	logger         *zap.Logger
}

func NewCompetitionHandler(competitionAPI upstream.CompetitionAPI, logger *zap.Logger) *CompetitionHandler {
	return &CompetitionHandler{competitionAPI: competitionAPI, logger: logger}
}

func (h *CompetitionHandler) CreateCompetition(c *gin.Context) {
	var req competition.CreateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	comp, err := h.competitionAPI.CreateCompetition(c.Request.Context(), middleware.GetCredential(c), req)
	if err != nil {
		h.fail(c, "failed to create competition", err)
		return
	}

	h.logger.Info("competition created",
		zap.String("competition_id", comp.ID),
		zap.String("group_id", comp.GroupID),
	)
	response.Success(c, http.StatusCreated, "competition created", comp)
}

func (h *CompetitionHandler) CreateDuel(c *gin.Context) {
	var req competition.CreateDuelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	duel, err := h.competitionAPI.CreateDuel(c.Request.Context(), middleware.GetCredential(c), req)
	if err != nil {
		h.fail(c, "failed to create duel", err)
		return
	}

	response.Success(c, http.StatusCreated, "duel created", duel)
}

func (h *CompetitionHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, msg)
	case errors.Is(err, xerrors.ErrUnauthenticated):
		response.Unauthorized(c, msg)
	default:
		h.logger.Error(msg, zap.Error(err))
		response.Error(c, http.StatusBadGateway, msg, err)
	}
}
