package auth

import (
	"errors"
	"net/http"

	"codearena-gateway/internal/domain/identity"
	"codearena-gateway/internal/middleware"
	xerrors "codearena-gateway/internal/pkg/errors"
	"codearena-gateway/internal/pkg/response"
	"codearena-gateway/internal/pkg/session"
	"codearena-gateway/internal/routeguard"
	"codearena-gateway/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	identityAPI upstream.IdentityAPI
	manager     *session.Manager
	credCookie  string
	logger      *zap.Logger
}

func NewAuthHandler(identityAPI upstream.IdentityAPI, manager *session.Manager, credCookie string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		identityAPI: identityAPI,
		manager:     manager,
		credCookie:  credCookie,
		logger:      logger,
	}
}

// ========== Login / Logout ==========

// Login authenticates against the platform API, installs the identity in
// the gateway session and replays the upstream credential cookie onto the
// browser.
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	id, cred, err := h.identityAPI.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		response.Error(c, http.StatusUnauthorized, "login failed", err)
		return
	}

	store := middleware.MustGetStore(c)
	store.Login(id)

	sid := middleware.MustGetSessionID(c)
	h.manager.Persist(c.Request.Context(), sid, store.Snapshot())

	c.SetCookie(h.credCookie, cred.Value, 0, "/", "", false, true)

	h.logger.Info("user logged in",
		zap.String("user_id", id.ID),
		zap.String("role", string(id.Role)),
	)

	response.Success(c, http.StatusOK, "login successful", gin.H{
		"user":     id,
		"redirect": routeguard.LandingFor(id.Role),
	})
}

// Logout tears down the session on both sides. The upstream call is best
// effort; local state is purged no matter what it answers.
func (h *AuthHandler) Logout(c *gin.Context) {
	cred := middleware.GetCredential(c)
	if !cred.IsZero() {
		if err := h.identityAPI.Logout(c.Request.Context(), cred); err != nil {
			h.logger.Warn("upstream logout failed, purging local session anyway", zap.Error(err))
		}
	}

	store := middleware.MustGetStore(c)
	store.Logout()

	sid := middleware.MustGetSessionID(c)
	h.manager.Purge(c.Request.Context(), sid)

	c.SetCookie(h.credCookie, "", -1, "/", "", false, true)

	response.Success(c, http.StatusOK, "logout successful", gin.H{
		"redirect": routeguard.PathLogin,
	})
}

// ========== Session introspection ==========

// Session reports the current session state. The frontend polls this
// instead of keeping its own auth state machine.
func (h *AuthHandler) Session(c *gin.Context) {
	snap := middleware.MustGetStore(c).Snapshot()

	payload := gin.H{
		"authenticated": snap.Authenticated,
		"loading":       snap.Loading,
		"resolved":      snap.Resolved,
	}
	if snap.Identity != nil {
		payload["user"] = snap.Identity
	}
	if snap.Provisional != nil && snap.Identity == nil {
		payload["provisional_user"] = snap.Provisional
	}
	if snap.LastError != "" {
		payload["error"] = snap.LastError
	}

	response.Success(c, http.StatusOK, "session state", payload)
}

// Profile returns the resolved identity or 401.
func (h *AuthHandler) Profile(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		response.Unauthorized(c, "not authenticated")
		return
	}
	response.Success(c, http.StatusOK, "profile", id)
}

// ========== Account lifecycle (proxied) ==========

func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	msg, err := h.identityAPI.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			response.Error(c, http.StatusConflict, "registration failed", err)
			return
		}
		response.Error(c, http.StatusBadRequest, "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, msg, gin.H{
		"redirect": routeguard.PathOTPVerify,
	})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req identity.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	msg, err := h.identityAPI.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "verification failed", err)
		return
	}

	response.Success(c, http.StatusOK, msg, gin.H{
		"redirect": routeguard.PathLogin,
	})
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req identity.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	msg, err := h.identityAPI.ResendOTP(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "resend failed", err)
		return
	}

	response.Success(c, http.StatusOK, msg, nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req identity.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	msg, err := h.identityAPI.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "request failed", err)
		return
	}

	response.Success(c, http.StatusOK, msg, nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req identity.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	msg, err := h.identityAPI.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "reset failed", err)
		return
	}

	response.Success(c, http.StatusOK, msg, gin.H{
		"redirect": routeguard.PathLogin,
	})
}
