package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafabene/sample-app/internal/domain/entities"
	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/domain/repositories"
	"github.com/rafabene/sample-app/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	model := r.toModel(user)

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrEmailAlreadyExists
		}
		return err
	}

	user.CreatedAt = time.Unix(model.CreatedAt, 0)
	user.UpdatedAt = time.Unix(model.UpdatedAt, 0)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	// id fora do formato UUID nunca existe; evita erro de cast no PostgreSQL
	if uuid.Validate(id) != nil {
		return nil, nil
	}

	var model UserModel

	db := getDB(ctx, r.db)
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

// FindByEmail busca pelo email já normalizado em minúsculas
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var model UserModel

	db := getDB(ctx, r.db)
	if err := db.Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	db := getDB(ctx, r.db)
	result := db.Model(&UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"name":            user.Name,
			"email":           user.Email.String(),
			"password_digest": user.PasswordDigest,
			"admin":           user.Admin,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrEmailAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateDigest(ctx context.Context, id string, kind entities.TokenKind, digest *string) error {
	column, err := digestColumn(kind)
	if err != nil {
		return err
	}
	return r.updateColumns(ctx, id, map[string]any{column: digest})
}

func (r *UserRepository) MarkActivated(ctx context.Context, id string, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{
		"activated":    true,
		"activated_at": at.UnixMilli(),
	})
}

func (r *UserRepository) UpdateReset(ctx context.Context, id string, digest *string, sentAt *time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{
		"reset_digest":  digest,
		"reset_sent_at": milliPtr(sentAt),
	})
}

// Delete remove o registro do usuário; dependentes são tratados pelo serviço
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	db := getDB(ctx, r.db)
	result := db.Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	var models []*UserModel

	limit, offset := filters.Normalize()
	query := r.filtered(ctx, filters).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.toEntities(models)
}

func (r *UserRepository) Count(ctx context.Context, filters repositories.UserFilters) (int64, error) {
	var count int64
	err := r.filtered(ctx, filters).Count(&count).Error
	return count, err
}

func (r *UserRepository) filtered(ctx context.Context, filters repositories.UserFilters) *gorm.DB {
	query := getDB(ctx, r.db).Model(&UserModel{})
	if filters.ActivatedOnly {
		query = query.Where("activated = ?", true)
	}
	return query
}

// updateColumns faz um único UPDATE atômico nas colunas informadas
func (r *UserRepository) updateColumns(ctx context.Context, id string, columns map[string]any) error {
	db := getDB(ctx, r.db)
	result := db.Model(&UserModel{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func digestColumn(kind entities.TokenKind) (string, error) {
	switch kind {
	case entities.TokenRemember:
		return "remember_digest", nil
	case entities.TokenActivation:
		return "activation_digest", nil
	case entities.TokenReset:
		return "reset_digest", nil
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	return &UserModel{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email.String(),
		PasswordDigest:   user.PasswordDigest,
		RememberDigest:   user.RememberDigest,
		ActivationDigest: user.ActivationDigest,
		Activated:        user.Activated,
		ActivatedAt:      milliPtr(user.ActivatedAt),
		ResetDigest:      user.ResetDigest,
		ResetSentAt:      milliPtr(user.ResetSentAt),
		Admin:            user.Admin,
		CreatedAt:        unixOrZero(user.CreatedAt),
		UpdatedAt:        unixOrZero(user.UpdatedAt),
	}
}

func (r *UserRepository) toEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("stored email for user %s: %w", model.ID, err)
	}

	return &entities.User{
		ID:               model.ID,
		Name:             model.Name,
		Email:            email,
		PasswordDigest:   model.PasswordDigest,
		RememberDigest:   model.RememberDigest,
		ActivationDigest: model.ActivationDigest,
		Activated:        model.Activated,
		ActivatedAt:      timeFromMilli(model.ActivatedAt),
		ResetDigest:      model.ResetDigest,
		ResetSentAt:      timeFromMilli(model.ResetSentAt),
		Admin:            model.Admin,
		CreatedAt:        time.Unix(model.CreatedAt, 0),
		UpdatedAt:        time.Unix(model.UpdatedAt, 0),
	}, nil
}

func (r *UserRepository) toEntities(models []*UserModel) ([]*entities.User, error) {
	users := make([]*entities.User, 0, len(models))

	for _, model := range models {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		users = append(users, entity)
	}

	return users, nil
}

// unixOrZero mantém zero para que autoCreateTime/autoUpdateTime preencham o campo
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// milliPtr e timeFromMilli convertem activated_at e reset_sent_at, guardados em milissegundos
func milliPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ts := t.UnixMilli()
	return &ts
}

func timeFromMilli(ts *int64) *time.Time {
	if ts == nil {
		return nil
	}
	t := time.UnixMilli(*ts)
	return &t
}
