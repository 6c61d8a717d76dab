package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/sample-app/internal/domain/entities"
	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/domain/repositories"
	"github.com/rafabene/sample-app/internal/handlers/dto"
	"github.com/rafabene/sample-app/internal/handlers/middleware"
	"github.com/rafabene/sample-app/internal/services"
)

// UserHandler lida com requisições HTTP relacionadas a usuários
type UserHandler struct {
	userService UserService
	logger      ports.Logger
}

// NewUserHandler cria um novo UserHandler
func NewUserHandler(userService UserService, logger ports.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser cadastra um usuário e dispara o email de ativação
//
//	@Summary	Sign up
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		dto.CreateUserRequest	true	"New user"
//	@Success	201		{object}	dto.UserResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Router		/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// GetUser retorna o perfil com contadores
//
//	@Summary	Show user
//	@Tags		users
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	dto.UserProfileResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	stats, err := h.userService.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	showEmail := middleware.CurrentUserID(c) == user.ID || middleware.IsAdmin(c)
	c.JSON(http.StatusOK, dto.ToUserProfileResponse(user, stats, showEmail))
}

// ListUsers lista usuários ativados
//
//	@Summary	List users
//	@Tags		users
//	@Produce	json
//	@Param		page		query		int	false	"Page (starts at 1)"
//	@Param		page_size	query		int	false	"Page size (max 100)"
//	@Success	200			{object}	dto.ListResponse[dto.UserResponse]
//	@Router		/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, ok := bindPagination(c)
	if !ok {
		return
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), repositories.UserFilters{
		ActivatedOnly: true,
		Pagination:    page,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(dto.ToPublicUserResponses(users), page, total))
}

// UpdateUser altera os dados do próprio usuário
//
//	@Summary	Update user
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"User ID"
//	@Param		request	body		dto.UpdateUserRequest	true	"Fields to change"
//	@Success	200		{object}	dto.UserResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	403		{object}	dto.ErrorResponse
//	@Router		/users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if middleware.CurrentUserID(c) != id {
		dto.Abort(c, dto.ForbiddenErrorResponseI18n(c, "error.forbidden"))
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req.ToInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// DeleteUser remove o usuário e tudo que depende dele (somente admin)
//
//	@Summary	Delete user
//	@Tags		users
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User ID"
//	@Success	204
//	@Failure	403	{object}	dto.ErrorResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Following lista quem o usuário segue
//
//	@Summary	Following
//	@Tags		relationships
//	@Produce	json
//	@Param		id			path		string	true	"User ID"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	dto.ListResponse[dto.UserResponse]
//	@Failure	404			{object}	dto.ErrorResponse
//	@Router		/users/{id}/following [get]
func (h *UserHandler) Following(c *gin.Context) {
	h.listRelations(c, h.userService.Following, func(s services.UserStats) int64 { return s.Following })
}

// Followers lista quem segue o usuário
//
//	@Summary	Followers
//	@Tags		relationships
//	@Produce	json
//	@Param		id			path		string	true	"User ID"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	dto.ListResponse[dto.UserResponse]
//	@Failure	404			{object}	dto.ErrorResponse
//	@Router		/users/{id}/followers [get]
func (h *UserHandler) Followers(c *gin.Context) {
	h.listRelations(c, h.userService.Followers, func(s services.UserStats) int64 { return s.Followers })
}

type relationLister func(ctx context.Context, userID string, page repositories.Pagination) ([]*entities.User, error)

func (h *UserHandler) listRelations(c *gin.Context, list relationLister, total func(services.UserStats) int64) {
	id := c.Param("id")
	page, ok := bindPagination(c)
	if !ok {
		return
	}

	users, err := list(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	stats, err := h.userService.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(dto.ToPublicUserResponses(users), page, total(stats)))
}

func listResponse[T any](data []T, page repositories.Pagination, total int64) dto.ListResponse[T] {
	number, size := pageMeta(page)
	return dto.ListResponse[T]{Data: data, Page: number, PageSize: size, Total: total}
}
