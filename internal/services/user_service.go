package services

import (
	"context"
	"errors"
	"time"

	"github.com/rafabene/sample-app/internal/domain/entities"
	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/domain/repositories"
	"github.com/rafabene/sample-app/internal/domain/valueobjects"
)

// msgEmailTaken é a mensagem de validação para email já cadastrado
const msgEmailTaken = "has already been taken"

// UserService contém a lógica de negócio para usuários
type UserService struct {
	userRepo     repositories.UserRepository
	relRepo      repositories.RelationshipRepository
	micropostRep repositories.MicropostRepository
	uow          ports.UnitOfWork
	digester     ports.Digester
	newToken     ports.TokenGenerator
	mailer       ports.Mailer
	logger       ports.Logger
	now          func() time.Time
}

// Option customiza os serviços
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock substitui o relógio usado para ativação, reset e microposts
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewUserService cria um novo UserService
func NewUserService(
	userRepo repositories.UserRepository,
	relRepo repositories.RelationshipRepository,
	micropostRepo repositories.MicropostRepository,
	uow ports.UnitOfWork,
	digester ports.Digester,
	newToken ports.TokenGenerator,
	mailer ports.Mailer,
	logger ports.Logger,
	opts ...Option,
) *UserService {
	o := buildOptions(opts)
	return &UserService{
		userRepo:     userRepo,
		relRepo:      relRepo,
		micropostRep: micropostRepo,
		uow:          uow,
		digester:     digester,
		newToken:     newToken,
		mailer:       mailer,
		logger:       logger,
		now:          o.now,
	}
}

// CreateUserInput representa os dados para criar um usuário
type CreateUserInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// UpdateUserInput representa uma atualização parcial; campos nil são mantidos
// e senha em branco preserva o digest atual
type UpdateUserInput struct {
	Name                 *string
	Email                *string
	Password             string
	PasswordConfirmation string
}

// ResetPasswordInput representa a conclusão de uma redefinição de senha
type ResetPasswordInput struct {
	Email                string
	Token                string
	Password             string
	PasswordConfirmation string
}

// UserStats agrega os contadores exibidos no perfil
type UserStats struct {
	Following  int64
	Followers  int64
	Microposts int64
}

// CreateUser valida e cadastra um usuário ainda não ativado.
// O token de ativação em texto puro só fica no usuário retornado.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*entities.User, error) {
	verr := domainerrors.NewValidationError()

	for _, msg := range entities.ValidateName(input.Name) {
		verr.Add("name", msg)
	}

	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		verr.Add("email", err.Error())
	} else {
		existing, err := s.userRepo.FindByEmail(ctx, email.String())
		if err != nil {
			return nil, err
		}
		if existing != nil {
			verr.Add("email", msgEmailTaken)
		}
	}

	for field, msgs := range entities.ValidatePassword(input.Password, input.PasswordConfirmation, false) {
		for _, msg := range msgs {
			verr.Add(field, msg)
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	passwordDigest, err := s.digester.Digest(input.Password)
	if err != nil {
		return nil, err
	}

	activationToken, activationDigest, err := s.generateToken()
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:             input.Name,
		Email:            email,
		PasswordDigest:   passwordDigest,
		ActivationDigest: &activationDigest,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrEmailAlreadyExists) {
			verr.Add("email", msgEmailTaken)
			return nil, verr
		}
		return nil, err
	}
	user.ActivationToken = activationToken

	s.logger.Info("user created", "user_id", user.ID)

	if err := s.mailer.SendAccountActivation(ctx, user, activationToken); err != nil {
		s.logger.Error("failed to send activation email", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// GetUser busca um usuário por ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return user, nil
}

// ListUsers lista usuários com filtros e retorna o total para paginação
func (s *UserService) ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, int64, error) {
	users, err := s.userRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser altera nome, email e, se informada, a senha
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*entities.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := domainerrors.NewValidationError()

	if input.Name != nil {
		for _, msg := range entities.ValidateName(*input.Name) {
			verr.Add("name", msg)
		}
		user.Name = *input.Name
	}

	if input.Email != nil {
		email, err := valueobjects.NewEmail(*input.Email)
		if err != nil {
			verr.Add("email", err.Error())
		} else if email != user.Email {
			existing, err := s.userRepo.FindByEmail(ctx, email.String())
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				verr.Add("email", msgEmailTaken)
			}
			user.Email = email
		}
	}

	for field, msgs := range entities.ValidatePassword(input.Password, input.PasswordConfirmation, true) {
		for _, msg := range msgs {
			verr.Add(field, msg)
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if input.Password != "" {
		digest, err := s.digester.Digest(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordDigest = digest
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrEmailAlreadyExists) {
			verr.Add("email", msgEmailTaken)
			return nil, verr
		}
		return nil, err
	}

	s.logger.Info("user updated", "user_id", user.ID)
	return user, nil
}

// DeleteUser remove o usuário, seus microposts e todas as relações
// em que aparece, numa única transação
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return domainerrors.ErrUserNotFound
		}

		posts, err := s.micropostRep.DeleteByUser(txCtx, id)
		if err != nil {
			return err
		}
		relations, err := s.relRepo.DeleteAllFor(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.userRepo.Delete(txCtx, id); err != nil {
			return err
		}

		s.logger.Info("user deleted",
			"user_id", id,
			"microposts_removed", posts,
			"relationships_removed", relations,
		)
		return nil
	})
}

// Authenticated confere o token contra o digest do tipo informado.
// Sem digest armazenado o resultado é sempre falso.
func (s *UserService) Authenticated(user *entities.User, kind entities.TokenKind, token string) bool {
	digest := user.Digest(kind)
	if digest == nil {
		return false
	}
	return s.digester.Matches(*digest, token)
}

// Remember gera e persiste um novo token "lembrar-me"
func (s *UserService) Remember(ctx context.Context, user *entities.User) (string, error) {
	token, digest, err := s.generateToken()
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateDigest(ctx, user.ID, entities.TokenRemember, &digest); err != nil {
		return "", err
	}

	user.SetDigest(entities.TokenRemember, &digest)
	user.RememberToken = token
	return token, nil
}

// Forget descarta o digest "lembrar-me"
func (s *UserService) Forget(ctx context.Context, user *entities.User) error {
	if err := s.userRepo.UpdateDigest(ctx, user.ID, entities.TokenRemember, nil); err != nil {
		return err
	}
	user.SetDigest(entities.TokenRemember, nil)
	user.RememberToken = ""
	return nil
}

// Activate ativa a conta; contas já ativadas não são alteradas
func (s *UserService) Activate(ctx context.Context, user *entities.User) error {
	if user.Activated {
		return nil
	}

	now := s.storedNow()
	if err := s.userRepo.MarkActivated(ctx, user.ID, now); err != nil {
		return err
	}
	user.Activate(now)

	s.logger.Info("user activated", "user_id", user.ID)
	return nil
}

// ActivateAccount valida o link de ativação recebido por email
func (s *UserService) ActivateAccount(ctx context.Context, email, token string) (*entities.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrInvalidToken
	}
	if user.Activated {
		return nil, domainerrors.ErrAccountActivated
	}
	if !s.Authenticated(user, entities.TokenActivation, token) {
		return nil, domainerrors.ErrInvalidToken
	}

	if err := s.Activate(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateResetDigest gera o token de redefinição e registra o horário do pedido
func (s *UserService) CreateResetDigest(ctx context.Context, user *entities.User) (string, error) {
	token, digest, err := s.generateToken()
	if err != nil {
		return "", err
	}

	sentAt := s.storedNow()
	if err := s.userRepo.UpdateReset(ctx, user.ID, &digest, &sentAt); err != nil {
		return "", err
	}

	user.ResetDigest = &digest
	user.ResetSentAt = &sentAt
	user.ResetToken = token
	return token, nil
}

// RequestPasswordReset cria o digest de redefinição e envia o email
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return domainerrors.ErrUserNotFound
	}

	token, err := s.CreateResetDigest(ctx, user)
	if err != nil {
		return err
	}

	s.logger.Info("password reset requested", "user_id", user.ID)

	if err := s.mailer.SendPasswordReset(ctx, user, token); err != nil {
		s.logger.Error("failed to send password reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword conclui a redefinição: troca a senha e limpa o estado de reset
func (s *UserService) ResetPassword(ctx context.Context, input ResetPasswordInput) (*entities.User, error) {
	user, err := s.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Activated || !s.Authenticated(user, entities.TokenReset, input.Token) {
		return nil, domainerrors.ErrInvalidToken
	}
	if user.PasswordResetExpired(s.now()) {
		return nil, domainerrors.ErrPasswordResetExpired
	}

	if errs := entities.ValidatePassword(input.Password, input.PasswordConfirmation, false); len(errs) > 0 {
		verr := domainerrors.NewValidationError()
		for field, msgs := range errs {
			for _, msg := range msgs {
				verr.Add(field, msg)
			}
		}
		return nil, verr
	}

	digest, err := s.digester.Digest(input.Password)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		user.PasswordDigest = digest
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return err
		}
		return s.userRepo.UpdateReset(txCtx, user.ID, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	user.ClearReset()

	s.logger.Info("password reset completed", "user_id", user.ID)
	return user, nil
}

// Login autentica email e senha de uma conta ativada
func (s *UserService) Login(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.digester.Matches(user.PasswordDigest, password) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !user.Activated {
		return nil, domainerrors.ErrAccountNotActivated
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// AuthenticateRemembered resolve o par de cookies user_id + remember_token
func (s *UserService) AuthenticateRemembered(ctx context.Context, userID, token string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.Authenticated(user, entities.TokenRemember, token) {
		return nil, domainerrors.ErrUnauthorized
	}
	return user, nil
}

// Follow faz followerID seguir followedID; repetir não tem efeito
func (s *UserService) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return domainerrors.ErrSelfFollow
	}
	if err := s.ensureUsers(ctx, followerID, followedID); err != nil {
		return err
	}

	if err := s.relRepo.Follow(ctx, followerID, followedID); err != nil {
		return err
	}
	s.logger.Info("user followed", "follower_id", followerID, "followed_id", followedID)
	return nil
}

// Unfollow desfaz a relação; sem relação não há efeito, mas os dois usuários precisam existir
func (s *UserService) Unfollow(ctx context.Context, followerID, followedID string) error {
	if err := s.ensureUsers(ctx, followerID, followedID); err != nil {
		return err
	}

	if err := s.relRepo.Unfollow(ctx, followerID, followedID); err != nil {
		return err
	}
	s.logger.Info("user unfollowed", "follower_id", followerID, "followed_id", followedID)
	return nil
}

// IsFollowing indica se followerID segue followedID
func (s *UserService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	return s.relRepo.IsFollowing(ctx, followerID, followedID)
}

// Following lista quem o usuário segue
func (s *UserService) Following(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.relRepo.Following(ctx, userID, page)
}

// Followers lista quem segue o usuário
func (s *UserService) Followers(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.relRepo.Followers(ctx, userID, page)
}

// Stats retorna os contadores de relações e microposts do usuário
func (s *UserService) Stats(ctx context.Context, userID string) (UserStats, error) {
	var stats UserStats
	var err error

	if stats.Following, err = s.relRepo.CountFollowing(ctx, userID); err != nil {
		return UserStats{}, err
	}
	if stats.Followers, err = s.relRepo.CountFollowers(ctx, userID); err != nil {
		return UserStats{}, err
	}
	if stats.Microposts, err = s.micropostRep.CountByUser(ctx, userID); err != nil {
		return UserStats{}, err
	}
	return stats, nil
}

// storedNow devolve o horário na precisão em que é persistido (milissegundos)
func (s *UserService) storedNow() time.Time {
	return s.now().Truncate(time.Millisecond)
}

// findByEmail normaliza o email; emails inválidos equivalem a usuário inexistente
func (s *UserService) findByEmail(ctx context.Context, raw string) (*entities.User, error) {
	email, err := valueobjects.NewEmail(raw)
	if err != nil {
		return nil, nil
	}
	return s.userRepo.FindByEmail(ctx, email.String())
}

func (s *UserService) ensureUsers(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := s.GetUser(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// generateToken retorna um token novo e seu digest
func (s *UserService) generateToken() (token, digest string, err error) {
	token, err = s.newToken()
	if err != nil {
		return "", "", err
	}
	digest, err = s.digester.Digest(token)
	if err != nil {
		return "", "", err
	}
	return token, digest, nil
}
