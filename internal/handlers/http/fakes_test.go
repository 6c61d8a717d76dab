package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/sample-app/internal/domain/entities"
	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/domain/repositories"
	"github.com/rafabene/sample-app/internal/domain/valueobjects"
	"github.com/rafabene/sample-app/internal/handlers/middleware"
	"github.com/rafabene/sample-app/internal/infrastructure/auth"
	"github.com/rafabene/sample-app/internal/infrastructure/i18n"
	"github.com/rafabene/sample-app/internal/infrastructure/logging"
	"github.com/rafabene/sample-app/internal/services"
)

// fakeServices implementa todas as interfaces de serviço; cada método
// delega para o campo Func correspondente. Campo nil responde como
// "não encontrado" ou sucesso vazio.
type fakeServices struct {
	CreateUserFunc     func(ctx context.Context, input services.CreateUserInput) (*entities.User, error)
	GetUserFunc        func(ctx context.Context, id string) (*entities.User, error)
	ListUsersFunc      func(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, int64, error)
	UpdateUserFunc     func(ctx context.Context, id string, input services.UpdateUserInput) (*entities.User, error)
	DeleteUserFunc     func(ctx context.Context, id string) error
	StatsFunc          func(ctx context.Context, userID string) (services.UserStats, error)
	FollowingFunc      func(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error)
	FollowersFunc      func(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error)
	LoginFunc          func(ctx context.Context, email, password string) (*entities.User, error)
	RememberFunc       func(ctx context.Context, user *entities.User) (string, error)
	ForgetFunc         func(ctx context.Context, user *entities.User) error
	ActivateFunc       func(ctx context.Context, email, token string) (*entities.User, error)
	RequestResetFunc   func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, input services.ResetPasswordInput) (*entities.User, error)
	FollowFunc         func(ctx context.Context, followerID, followedID string) error
	UnfollowFunc       func(ctx context.Context, followerID, followedID string) error
	IsFollowingFunc    func(ctx context.Context, followerID, followedID string) (bool, error)
	CreateMicropostFn  func(ctx context.Context, userID, content string) (*entities.Micropost, error)
	DeleteMicropostFn  func(ctx context.Context, actorID, micropostID string) error
	ListMicropostsFunc func(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.Micropost, int64, error)
	FeedFunc           func(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.Micropost, int64, error)
}

func (f *fakeServices) CreateUser(ctx context.Context, input services.CreateUserInput) (*entities.User, error) {
	return f.CreateUserFunc(ctx, input)
}

func (f *fakeServices) GetUser(ctx context.Context, id string) (*entities.User, error) {
	if f.GetUserFunc == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return f.GetUserFunc(ctx, id)
}

func (f *fakeServices) ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, int64, error) {
	return f.ListUsersFunc(ctx, filters)
}

func (f *fakeServices) UpdateUser(ctx context.Context, id string, input services.UpdateUserInput) (*entities.User, error) {
	return f.UpdateUserFunc(ctx, id, input)
}

func (f *fakeServices) DeleteUser(ctx context.Context, id string) error {
	return f.DeleteUserFunc(ctx, id)
}

func (f *fakeServices) Stats(ctx context.Context, userID string) (services.UserStats, error) {
	if f.StatsFunc == nil {
		return services.UserStats{}, nil
	}
	return f.StatsFunc(ctx, userID)
}

func (f *fakeServices) Following(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error) {
	return f.FollowingFunc(ctx, userID, page)
}

func (f *fakeServices) Followers(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error) {
	return f.FollowersFunc(ctx, userID, page)
}

func (f *fakeServices) Login(ctx context.Context, email, password string) (*entities.User, error) {
	return f.LoginFunc(ctx, email, password)
}

func (f *fakeServices) Remember(ctx context.Context, user *entities.User) (string, error) {
	return f.RememberFunc(ctx, user)
}

func (f *fakeServices) Forget(ctx context.Context, user *entities.User) error {
	if f.ForgetFunc == nil {
		return nil
	}
	return f.ForgetFunc(ctx, user)
}

func (f *fakeServices) ActivateAccount(ctx context.Context, email, token string) (*entities.User, error) {
	return f.ActivateFunc(ctx, email, token)
}

func (f *fakeServices) RequestPasswordReset(ctx context.Context, email string) error {
	return f.RequestResetFunc(ctx, email)
}

func (f *fakeServices) ResetPassword(ctx context.Context, input services.ResetPasswordInput) (*entities.User, error) {
	return f.ResetPasswordFunc(ctx, input)
}

func (f *fakeServices) Follow(ctx context.Context, followerID, followedID string) error {
	return f.FollowFunc(ctx, followerID, followedID)
}

func (f *fakeServices) Unfollow(ctx context.Context, followerID, followedID string) error {
	return f.UnfollowFunc(ctx, followerID, followedID)
}

func (f *fakeServices) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	if f.IsFollowingFunc == nil {
		return false, nil
	}
	return f.IsFollowingFunc(ctx, followerID, followedID)
}

func (f *fakeServices) AuthenticateRemembered(_ context.Context, _, _ string) (*entities.User, error) {
	return nil, domainerrors.ErrUnauthorized
}

func (f *fakeServices) CreateMicropost(ctx context.Context, userID, content string) (*entities.Micropost, error) {
	return f.CreateMicropostFn(ctx, userID, content)
}

func (f *fakeServices) DeleteMicropost(ctx context.Context, actorID, micropostID string) error {
	return f.DeleteMicropostFn(ctx, actorID, micropostID)
}

func (f *fakeServices) ListByUser(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.Micropost, int64, error) {
	return f.ListMicropostsFunc(ctx, userID, page)
}

func (f *fakeServices) Feed(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.Micropost, int64, error) {
	return f.FeedFunc(ctx, userID, page)
}

// apiHarness monta a API completa sobre os fakes
type apiHarness struct {
	router *gin.Engine
	tokens *auth.TokenService
}

func newHarness(t *testing.T, fake *fakeServices) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	translations, err := i18n.NewEmbeddedService("en")
	require.NoError(t, err)

	logger := logging.Nop()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	sessions := NewSessionHandler(fake, tokens, logger, false)

	router := gin.New()
	router.Use(middleware.NewI18nMiddleware(translations).DetectLanguage())
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Users:         NewUserHandler(fake, logger),
		Sessions:      sessions,
		Accounts:      NewAccountHandler(fake, sessions, logger),
		Relationships: NewRelationshipHandler(fake, logger),
		Microposts:    NewMicropostHandler(fake, logger),
	}, middleware.NewAuthMiddleware(tokens, fake, logger))

	return &apiHarness{router: router, tokens: tokens}
}

// do executa a requisição; asUser vazio envia sem credenciais
func (h *apiHarness) do(t *testing.T, method, path string, body any, asUser *entities.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if asUser != nil {
		token, _, err := h.tokens.Issue(asUser)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func newUser(t *testing.T, id, name, email string) *entities.User {
	t.Helper()
	addr, err := valueobjects.NewEmail(email)
	require.NoError(t, err)
	return &entities.User{
		ID:        id,
		Name:      name,
		Email:     addr,
		Activated: true,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

const (
	michaelID = "11111111-1111-1111-1111-111111111111"
	archerID  = "22222222-2222-2222-2222-222222222222"
)
