package http

import (
	"context"
	"time"

	"github.com/rafabene/sample-app/internal/domain/entities"
	"github.com/rafabene/sample-app/internal/domain/repositories"
	"github.com/rafabene/sample-app/internal/services"
)

// Interfaces definidas pelo consumidor; *services.UserService e
// *services.MicropostService satisfazem todas elas.

// UserService é o que o UserHandler usa do serviço de usuários
type UserService interface {
	CreateUser(ctx context.Context, input services.CreateUserInput) (*entities.User, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, int64, error)
	UpdateUser(ctx context.Context, id string, input services.UpdateUserInput) (*entities.User, error)
	DeleteUser(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string) (services.UserStats, error)
	Following(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error)
	Followers(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error)
}

// SessionService cobre login, logout e "lembrar-me"
type SessionService interface {
	Login(ctx context.Context, email, password string) (*entities.User, error)
	Remember(ctx context.Context, user *entities.User) (string, error)
	Forget(ctx context.Context, user *entities.User) error
	GetUser(ctx context.Context, id string) (*entities.User, error)
}

// AccountService cobre ativação e redefinição de senha
type AccountService interface {
	ActivateAccount(ctx context.Context, email, token string) (*entities.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input services.ResetPasswordInput) (*entities.User, error)
}

// RelationshipService cobre seguir e deixar de seguir
type RelationshipService interface {
	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	Stats(ctx context.Context, userID string) (services.UserStats, error)
}

// MicropostService cobre publicação e leitura de microposts
type MicropostService interface {
	CreateMicropost(ctx context.Context, userID, content string) (*entities.Micropost, error)
	DeleteMicropost(ctx context.Context, actorID, micropostID string) error
	ListByUser(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.Micropost, int64, error)
	Feed(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.Micropost, int64, error)
}

// TokenIssuer emite access tokens
type TokenIssuer interface {
	Issue(user *entities.User) (string, time.Time, error)
}
