package services

import (
	"context"
	"time"

	"github.com/rafabene/sample-app/internal/domain/entities"
	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/domain/repositories"
)

// MicropostService contém a lógica de negócio para microposts
type MicropostService struct {
	micropostRepo repositories.MicropostRepository
	userRepo      repositories.UserRepository
	logger        ports.Logger
	now           func() time.Time
}

// NewMicropostService cria um novo MicropostService
func NewMicropostService(
	micropostRepo repositories.MicropostRepository,
	userRepo repositories.UserRepository,
	logger ports.Logger,
	opts ...Option,
) *MicropostService {
	o := buildOptions(opts)
	return &MicropostService{
		micropostRepo: micropostRepo,
		userRepo:      userRepo,
		logger:        logger,
		now:           o.now,
	}
}

// CreateMicropost publica um micropost do usuário
func (s *MicropostService) CreateMicropost(ctx context.Context, userID, content string) (*entities.Micropost, error) {
	micropost := &entities.Micropost{
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}

	if errs := micropost.Validate(); len(errs) > 0 {
		return nil, &domainerrors.ValidationError{Fields: errs}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}

	if err := s.micropostRepo.Create(ctx, micropost); err != nil {
		return nil, err
	}

	s.logger.Info("micropost created", "micropost_id", micropost.ID, "user_id", userID)
	return micropost, nil
}

// DeleteMicropost remove um micropost; só o autor pode removê-lo
func (s *MicropostService) DeleteMicropost(ctx context.Context, actorID, micropostID string) error {
	micropost, err := s.micropostRepo.FindByID(ctx, micropostID)
	if err != nil {
		return err
	}
	if micropost == nil {
		return domainerrors.ErrMicropostNotFound
	}
	if micropost.UserID != actorID {
		return domainerrors.ErrForbidden
	}

	if err := s.micropostRepo.Delete(ctx, micropostID); err != nil {
		return err
	}

	s.logger.Info("micropost deleted", "micropost_id", micropostID, "user_id", actorID)
	return nil
}

// ListByUser lista os microposts do usuário, mais recentes primeiro
func (s *MicropostService) ListByUser(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.Micropost, int64, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, domainerrors.ErrUserNotFound
	}

	posts, err := s.micropostRepo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.micropostRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Feed retorna o feed do usuário: por enquanto apenas os próprios microposts
func (s *MicropostService) Feed(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.Micropost, int64, error) {
	return s.ListByUser(ctx, userID, page)
}
