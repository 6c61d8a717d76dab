package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/handlers/dto"
)

// AccountHandler cuida da ativação de conta e da redefinição de senha
type AccountHandler struct {
	accounts AccountService
	sessions *SessionHandler
	logger   ports.Logger
}

// NewAccountHandler cria um novo AccountHandler. Ativar ou redefinir a
// senha já autentica o usuário, por isso o SessionHandler é reaproveitado.
func NewAccountHandler(accounts AccountService, sessions *SessionHandler, logger ports.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions, logger: logger}
}

// Activate ativa a conta a partir do link enviado por email
//
//	@Summary	Activate account
//	@Tags		accounts
//	@Produce	json
//	@Param		token	path		string	true	"Activation token"
//	@Param		email	query		string	true	"Account email"
//	@Success	200		{object}	dto.LoginResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/account_activations/{token} [get]
func (h *AccountHandler) Activate(c *gin.Context) {
	user, err := h.accounts.ActivateAccount(c.Request.Context(), c.Query("email"), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("account activated", "user_id", user.ID)
	h.sessions.respondWithToken(c, user)
}

// RequestPasswordReset envia o email de redefinição
//
//	@Summary	Request password reset
//	@Tags		accounts
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.PasswordResetRequest	true	"Account email"
//	@Success	202		{object}	dto.MessageResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Router		/password_resets [post]
func (h *AccountHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: dto.T(c, "message.password_reset_sent")})
}

// ResetPassword grava a nova senha
//
//	@Summary	Reset password
//	@Tags		accounts
//	@Accept		json
//	@Produce	json
//	@Param		token	path		string						true	"Reset token"
//	@Param		request	body		dto.ResetPasswordRequest	true	"New password"
//	@Success	200		{object}	dto.LoginResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	410		{object}	dto.ErrorResponse
//	@Router		/password_resets/{token} [patch]
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.ResetPassword(c.Request.Context(), req.ToInput(c.Param("token")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.sessions.respondWithToken(c, user)
}
