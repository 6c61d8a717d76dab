package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/handlers/dto"
	"github.com/rafabene/sample-app/internal/handlers/middleware"
)

// RelationshipHandler lida com seguir e deixar de seguir
type RelationshipHandler struct {
	relationships RelationshipService
	logger        ports.Logger
}

// NewRelationshipHandler cria um novo RelationshipHandler
func NewRelationshipHandler(relationships RelationshipService, logger ports.Logger) *RelationshipHandler {
	return &RelationshipHandler{relationships: relationships, logger: logger}
}

// Follow faz o usuário autenticado seguir outro
//
//	@Summary	Follow user
//	@Tags		relationships
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.FollowRequest	true	"User to follow"
//	@Success	200		{object}	dto.RelationshipResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Router		/relationships [post]
func (h *RelationshipHandler) Follow(c *gin.Context) {
	var req dto.FollowRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.relationships.Follow(c.Request.Context(), middleware.CurrentUserID(c), req.FollowedID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respond(c, req.FollowedID)
}

// Unfollow desfaz a relação com o usuário :id
//
//	@Summary	Unfollow user
//	@Tags		relationships
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Followed user ID"
//	@Success	200	{object}	dto.RelationshipResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/relationships/{id} [delete]
func (h *RelationshipHandler) Unfollow(c *gin.Context) {
	followedID := c.Param("id")

	if err := h.relationships.Unfollow(c.Request.Context(), middleware.CurrentUserID(c), followedID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.respond(c, followedID)
}

func (h *RelationshipHandler) respond(c *gin.Context, followedID string) {
	ctx := c.Request.Context()

	following, err := h.relationships.IsFollowing(ctx, middleware.CurrentUserID(c), followedID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	stats, err := h.relationships.Stats(ctx, followedID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.RelationshipResponse{
		FollowedID:     followedID,
		Following:      following,
		FollowersCount: stats.Followers,
	})
}
