package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafabene/sample-app/internal/domain/entities"
	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/domain/repositories"
)

// MicropostRepository implementa repositories.MicropostRepository
type MicropostRepository struct {
	db *gorm.DB
}

// NewMicropostRepository cria um novo MicropostRepository
func NewMicropostRepository(db *gorm.DB) repositories.MicropostRepository {
	return &MicropostRepository{db: db}
}

func (r *MicropostRepository) Create(ctx context.Context, micropost *entities.Micropost) error {
	if micropost.ID == "" {
		micropost.ID = uuid.NewString()
	}

	model := &MicropostModel{
		ID:      micropost.ID,
		UserID:  micropost.UserID,
		Content: micropost.Content,
	}
	if !micropost.CreatedAt.IsZero() {
		model.CreatedAt = micropost.CreatedAt.UnixMilli()
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return err
	}

	micropost.CreatedAt = time.UnixMilli(model.CreatedAt)
	return nil
}

func (r *MicropostRepository) FindByID(ctx context.Context, id string) (*entities.Micropost, error) {
	// id fora do formato UUID nunca existe; evita erro de cast no PostgreSQL
	if uuid.Validate(id) != nil {
		return nil, nil
	}

	var model MicropostModel

	if err := getDB(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toMicropostEntity(&model), nil
}

func (r *MicropostRepository) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&MicropostModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMicropostNotFound
	}
	return nil
}

func (r *MicropostRepository) ListByUser(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.Micropost, error) {
	var models []*MicropostModel

	limit, offset := page.Normalize()
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	microposts := make([]*entities.Micropost, 0, len(models))
	for _, model := range models {
		microposts = append(microposts, toMicropostEntity(model))
	}
	return microposts, nil
}

func (r *MicropostRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&MicropostModel{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *MicropostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&MicropostModel{}).Count(&count).Error
	return count, err
}

func (r *MicropostRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result := getDB(ctx, r.db).Where("user_id = ?", userID).Delete(&MicropostModel{})
	return result.RowsAffected, result.Error
}

func toMicropostEntity(model *MicropostModel) *entities.Micropost {
	return &entities.Micropost{
		ID:        model.ID,
		UserID:    model.UserID,
		Content:   model.Content,
		CreatedAt: time.UnixMilli(model.CreatedAt),
	}
}
