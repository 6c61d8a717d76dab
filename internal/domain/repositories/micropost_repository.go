package repositories

import (
	"context"

	"github.com/rafabene/sample-app/internal/domain/entities"
)

// MicropostRepository define a persistência de microposts
type MicropostRepository interface {
	Create(ctx context.Context, micropost *entities.Micropost) error
	FindByID(ctx context.Context, id string) (*entities.Micropost, error)
	Delete(ctx context.Context, id string) error
	// ListByUser retorna os microposts do usuário, mais recentes primeiro
	ListByUser(ctx context.Context, userID string, page Pagination) ([]*entities.Micropost, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
