package dto

import (
	"time"

	"github.com/rafabene/sample-app/internal/domain/entities"
	"github.com/rafabene/sample-app/internal/services"
)

// CreateUserRequest representa a requisição de cadastro.
// As regras de negócio (tamanhos, formato de email) ficam no serviço.
type CreateUserRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ToInput converte a requisição para o serviço
func (r CreateUserRequest) ToInput() services.CreateUserInput {
	return services.CreateUserInput{
		Name:                 r.Name,
		Email:                r.Email,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// UpdateUserRequest representa a requisição para atualizar um usuário.
// Senha em branco mantém a atual.
type UpdateUserRequest struct {
	Name                 *string `json:"name"`
	Email                *string `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
}

// ToInput converte a requisição para o serviço
func (r UpdateUserRequest) ToInput() services.UpdateUserInput {
	return services.UpdateUserInput{
		Name:                 r.Name,
		Email:                r.Email,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// UserResponse representa a resposta de um usuário.
// Email só aparece para o próprio usuário ou para admins.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Admin     bool      `json:"admin"`
	Activated bool      `json:"activated"`
	CreatedAt time.Time `json:"created_at"`
}

// UserProfileResponse inclui os contadores do perfil
type UserProfileResponse struct {
	UserResponse
	FollowingCount  int64 `json:"following_count"`
	FollowersCount  int64 `json:"followers_count"`
	MicropostsCount int64 `json:"microposts_count"`
}

// ToUserResponse converte uma entidade User com email visível
func ToUserResponse(user *entities.User) UserResponse {
	resp := ToPublicUserResponse(user)
	resp.Email = user.Email.String()
	return resp
}

// ToPublicUserResponse converte uma entidade User sem expor o email
func ToPublicUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Admin:     user.Admin,
		Activated: user.Activated,
		CreatedAt: user.CreatedAt,
	}
}

// ToPublicUserResponses converte uma lista de entidades User
func ToPublicUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToPublicUserResponse(user)
	}
	return responses
}

// ToUserProfileResponse junta usuário e contadores
func ToUserProfileResponse(user *entities.User, stats services.UserStats, showEmail bool) UserProfileResponse {
	base := ToPublicUserResponse(user)
	if showEmail {
		base = ToUserResponse(user)
	}
	return UserProfileResponse{
		UserResponse:    base,
		FollowingCount:  stats.Following,
		FollowersCount:  stats.Followers,
		MicropostsCount: stats.Microposts,
	}
}
