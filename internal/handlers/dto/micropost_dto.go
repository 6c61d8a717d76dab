package dto

import (
	"time"

	"github.com/rafabene/sample-app/internal/domain/entities"
)

// CreateMicropostRequest representa a requisição para publicar um micropost
type CreateMicropostRequest struct {
	Content string `json:"content"`
}

// MicropostResponse representa um micropost
type MicropostResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ToMicropostResponses converte uma lista de microposts
func ToMicropostResponses(posts []*entities.Micropost) []MicropostResponse {
	responses := make([]MicropostResponse, len(posts))
	for i, post := range posts {
		responses[i] = ToMicropostResponse(post)
	}
	return responses
}

// ToMicropostResponse converte um micropost
func ToMicropostResponse(post *entities.Micropost) MicropostResponse {
	return MicropostResponse{
		ID:        post.ID,
		UserID:    post.UserID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}
}

// FollowRequest representa a requisição para seguir um usuário
type FollowRequest struct {
	FollowedID string `json:"followed_id" binding:"required,uuid"`
}

// RelationshipResponse informa o estado da relação após follow/unfollow
type RelationshipResponse struct {
	FollowedID     string `json:"followed_id"`
	Following      bool   `json:"following"`
	FollowersCount int64  `json:"followers_count"`
}
