package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/sample-app/internal/domain/entities"
	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/handlers/dto"
	"github.com/rafabene/sample-app/internal/infrastructure/auth"
)

const (
	// UserIDContextKey guarda o ID do usuário autenticado
	UserIDContextKey = "current_user_id"
	// AdminContextKey indica se o usuário autenticado é admin
	AdminContextKey = "current_user_admin"

	// RememberUserCookie e RememberTokenCookie formam o par "lembrar-me"
	RememberUserCookie  = "user_id"
	RememberTokenCookie = "remember_token"
)

// AccessTokenParser valida access tokens
type AccessTokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RememberedAuthenticator resolve o par de cookies persistentes
type RememberedAuthenticator interface {
	AuthenticateRemembered(ctx context.Context, userID, token string) (*entities.User, error)
}

// AuthMiddleware autentica por Bearer token ou pelos cookies de remember
type AuthMiddleware struct {
	tokens     AccessTokenParser
	remembered RememberedAuthenticator
	logger     ports.Logger
}

// NewAuthMiddleware cria um novo AuthMiddleware
func NewAuthMiddleware(tokens AccessTokenParser, remembered RememberedAuthenticator, logger ports.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, remembered: remembered, logger: logger}
}

// RequireUser exige um usuário autenticado
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c, "error.unauthorized"))
			return
		}
		c.Next()
	}
}

// OptionalUser identifica o usuário quando há credenciais, sem exigir
func (m *AuthMiddleware) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.authenticate(c)
		c.Next()
	}
}

// RequireAdmin exige um admin; deve vir depois de RequireUser
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			dto.Abort(c, dto.ForbiddenErrorResponseI18n(c, "error.forbidden"))
			return
		}
		c.Next()
	}
}

// CurrentUserID retorna o ID autenticado ou vazio
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDContextKey)
}

// IsAdmin indica se o usuário autenticado é admin
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(AdminContextKey)
}

func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	if header := c.GetHeader("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return false
		}
		claims, err := m.tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			m.logger.Debug("rejected access token", "error", err)
			return false
		}
		c.Set(UserIDContextKey, claims.Subject)
		c.Set(AdminContextKey, claims.Admin)
		return true
	}

	userID, err := c.Cookie(RememberUserCookie)
	if err != nil || userID == "" {
		return false
	}
	token, err := c.Cookie(RememberTokenCookie)
	if err != nil || token == "" {
		return false
	}

	user, err := m.remembered.AuthenticateRemembered(c.Request.Context(), userID, token)
	if err != nil {
		m.logger.Debug("rejected remember cookie", "user_id", userID, "error", err)
		return false
	}
	c.Set(UserIDContextKey, user.ID)
	c.Set(AdminContextKey, user.Admin)
	return true
}
