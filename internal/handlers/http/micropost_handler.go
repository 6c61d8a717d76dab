package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/handlers/dto"
	"github.com/rafabene/sample-app/internal/handlers/middleware"
)

// MicropostHandler lida com requisições de microposts e do feed
type MicropostHandler struct {
	microposts MicropostService
	logger     ports.Logger
}

// NewMicropostHandler cria um novo MicropostHandler
func NewMicropostHandler(microposts MicropostService, logger ports.Logger) *MicropostHandler {
	return &MicropostHandler{microposts: microposts, logger: logger}
}

// CreateMicropost publica um micropost do usuário autenticado
//
//	@Summary	Create micropost
//	@Tags		microposts
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.CreateMicropostRequest	true	"Content"
//	@Success	201		{object}	dto.MicropostResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Router		/microposts [post]
func (h *MicropostHandler) CreateMicropost(c *gin.Context) {
	var req dto.CreateMicropostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.microposts.CreateMicropost(c.Request.Context(), middleware.CurrentUserID(c), req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMicropostResponse(post))
}

// DeleteMicropost remove um micropost do próprio autor
//
//	@Summary	Delete micropost
//	@Tags		microposts
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Micropost ID"
//	@Success	204
//	@Failure	403	{object}	dto.ErrorResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/microposts/{id} [delete]
func (h *MicropostHandler) DeleteMicropost(c *gin.Context) {
	if err := h.microposts.DeleteMicropost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListByUser lista os microposts de um usuário
//
//	@Summary	User microposts
//	@Tags		microposts
//	@Produce	json
//	@Param		id			path		string	true	"User ID"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	dto.ListResponse[dto.MicropostResponse]
//	@Failure	404			{object}	dto.ErrorResponse
//	@Router		/users/{id}/microposts [get]
func (h *MicropostHandler) ListByUser(c *gin.Context) {
	page, ok := bindPagination(c)
	if !ok {
		return
	}

	posts, total, err := h.microposts.ListByUser(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(dto.ToMicropostResponses(posts), page, total))
}

// Feed retorna o feed do usuário autenticado
//
//	@Summary	Feed
//	@Tags		microposts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		page		query		int	false	"Page"
//	@Param		page_size	query		int	false	"Page size"
//	@Success	200			{object}	dto.ListResponse[dto.MicropostResponse]
//	@Router		/feed [get]
func (h *MicropostHandler) Feed(c *gin.Context) {
	page, ok := bindPagination(c)
	if !ok {
		return
	}

	posts, total, err := h.microposts.Feed(c.Request.Context(), middleware.CurrentUserID(c), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(dto.ToMicropostResponses(posts), page, total))
}
