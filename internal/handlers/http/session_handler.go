package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/sample-app/internal/domain/entities"
	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/handlers/dto"
	"github.com/rafabene/sample-app/internal/handlers/middleware"
	"github.com/rafabene/sample-app/internal/infrastructure/metrics"
)

// rememberMaxAge é a validade dos cookies persistentes (20 anos)
const rememberMaxAge = 20 * 365 * 24 * 60 * 60

// SessionHandler lida com login e logout
type SessionHandler struct {
	sessions      SessionService
	tokens        TokenIssuer
	logger        ports.Logger
	secureCookies bool
}

// NewSessionHandler cria um novo SessionHandler; secureCookies liga a flag Secure
func NewSessionHandler(sessions SessionService, tokens TokenIssuer, logger ports.Logger, secureCookies bool) *SessionHandler {
	return &SessionHandler{
		sessions:      sessions,
		tokens:        tokens,
		logger:        logger,
		secureCookies: secureCookies,
	}
}

// Login autentica por email e senha
//
//	@Summary	Log in
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.LoginRequest	true	"Credentials"
//	@Success	200		{object}	dto.LoginResponse
//	@Failure	401		{object}	dto.ErrorResponse
//	@Failure	403		{object}	dto.ErrorResponse
//	@Router		/sessions [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginOutcome(err)).Inc()
		respondError(c, h.logger, err)
		return
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	if req.RememberMe {
		token, err := h.sessions.Remember(c.Request.Context(), user)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		h.setRememberCookies(c, user.ID, token, rememberMaxAge)
	} else if err := h.sessions.Forget(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respondWithToken(c, user)
}

// Logout esquece o usuário e apaga os cookies persistentes
//
//	@Summary	Log out
//	@Tags		sessions
//	@Security	BearerAuth
//	@Success	204
//	@Failure	401	{object}	dto.ErrorResponse
//	@Router		/sessions [delete]
func (h *SessionHandler) Logout(c *gin.Context) {
	user, err := h.sessions.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil && !errors.Is(err, domainerrors.ErrUserNotFound) {
		respondError(c, h.logger, err)
		return
	}
	if user != nil {
		if err := h.sessions.Forget(c.Request.Context(), user); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	h.setRememberCookies(c, "", "", -1)
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) respondWithToken(c *gin.Context, user *entities.User) {
	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        dto.ToUserResponse(user),
	})
}

func (h *SessionHandler) setRememberCookies(c *gin.Context, userID, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.RememberUserCookie, userID, maxAge, "/", "", h.secureCookies, true)
	c.SetCookie(middleware.RememberTokenCookie, token, maxAge, "/", "", h.secureCookies, true)
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domainerrors.ErrAccountNotActivated):
		return "not_activated"
	default:
		return "error"
	}
}
