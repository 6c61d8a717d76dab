package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafabene/sample-app/internal/domain/entities"
	"github.com/rafabene/sample-app/internal/domain/repositories"
)

// RelationshipRepository implementa repositories.RelationshipRepository
type RelationshipRepository struct {
	db    *gorm.DB
	users *UserRepository
}

// NewRelationshipRepository cria um novo RelationshipRepository
func NewRelationshipRepository(db *gorm.DB) repositories.RelationshipRepository {
	return &RelationshipRepository{db: db, users: &UserRepository{db: db}}
}

func (r *RelationshipRepository) Follow(ctx context.Context, followerID, followedID string) error {
	db := getDB(ctx, r.db)
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&RelationshipModel{FollowerID: followerID, FollowedID: followedID}).Error
}

func (r *RelationshipRepository) Unfollow(ctx context.Context, followerID, followedID string) error {
	db := getDB(ctx, r.db)
	return db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&RelationshipModel{}).Error
}

func (r *RelationshipRepository) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&RelationshipModel{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// Following lista quem userID segue, na ordem em que passou a seguir
func (r *RelationshipRepository) Following(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error) {
	return r.listUsers(ctx, "relationships.followed_id = users.id", "relationships.follower_id = ?", userID, page)
}

// Followers lista quem segue userID
func (r *RelationshipRepository) Followers(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error) {
	return r.listUsers(ctx, "relationships.follower_id = users.id", "relationships.followed_id = ?", userID, page)
}

func (r *RelationshipRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "follower_id = ?", userID)
}

func (r *RelationshipRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "followed_id = ?", userID)
}

func (r *RelationshipRepository) DeleteAllFor(ctx context.Context, userID string) (int64, error) {
	result := getDB(ctx, r.db).
		Where("follower_id = ? OR followed_id = ?", userID, userID).
		Delete(&RelationshipModel{})
	return result.RowsAffected, result.Error
}

func (r *RelationshipRepository) listUsers(ctx context.Context, join, where, userID string, page repositories.Pagination) ([]*entities.User, error) {
	var models []*UserModel

	limit, offset := page.Normalize()
	err := getDB(ctx, r.db).Model(&UserModel{}).
		Joins("JOIN relationships ON "+join).
		Where(where, userID).
		Order("relationships.created_at ASC, users.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.users.toEntities(models)
}

func (r *RelationshipRepository) count(ctx context.Context, where, userID string) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&RelationshipModel{}).Where(where, userID).Count(&count).Error
	return count, err
}
