package dto

import (
	"time"

	"github.com/rafabene/sample-app/internal/services"
)

// LoginRequest representa a requisição de login
type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// LoginResponse devolve o access token e o usuário autenticado
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// PasswordResetRequest pede o email de redefinição de senha
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest conclui a redefinição; o token vem na URL
type ResetPasswordRequest struct {
	Email                string `json:"email" binding:"required"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ToInput converte a requisição para o serviço
func (r ResetPasswordRequest) ToInput(token string) services.ResetPasswordInput {
	return services.ResetPasswordInput{
		Email:                r.Email,
		Token:                token,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}
