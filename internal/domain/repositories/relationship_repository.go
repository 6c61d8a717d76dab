package repositories

import (
	"context"

	"github.com/rafabene/sample-app/internal/domain/entities"
)

// RelationshipRepository persiste a relação "segue" entre usuários.
// Uma única linha (follower, followed) alimenta tanto following quanto followers.
type RelationshipRepository interface {
	// Follow é idempotente: seguir duas vezes mantém uma única linha
	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	Following(ctx context.Context, userID string, page Pagination) ([]*entities.User, error)
	Followers(ctx context.Context, userID string, page Pagination) ([]*entities.User, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	// DeleteAllFor remove as relações do usuário nas duas direções
	DeleteAllFor(ctx context.Context, userID string) (int64, error)
}
