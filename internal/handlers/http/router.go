package http

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/sample-app/internal/handlers/middleware"
)

// Handlers agrupa os handlers registrados em /api/v1
type Handlers struct {
	Users         *UserHandler
	Sessions      *SessionHandler
	Accounts      *AccountHandler
	Relationships *RelationshipHandler
	Microposts    *MicropostHandler
}

// RegisterRoutes monta as rotas da API no grupo informado
func RegisterRoutes(v1 *gin.RouterGroup, h Handlers, auth *middleware.AuthMiddleware) {
	requireUser := auth.RequireUser()

	users := v1.Group("/users")
	{
		users.POST("", h.Users.CreateUser)
		users.GET("", h.Users.ListUsers)
		users.GET("/:id", auth.OptionalUser(), h.Users.GetUser)
		users.PATCH("/:id", requireUser, h.Users.UpdateUser)
		users.DELETE("/:id", requireUser, middleware.RequireAdmin(), h.Users.DeleteUser)
		users.GET("/:id/following", h.Users.Following)
		users.GET("/:id/followers", h.Users.Followers)
		users.GET("/:id/microposts", h.Microposts.ListByUser)
	}

	v1.POST("/sessions", h.Sessions.Login)
	v1.DELETE("/sessions", requireUser, h.Sessions.Logout)

	v1.GET("/account_activations/:token", h.Accounts.Activate)
	v1.POST("/password_resets", h.Accounts.RequestPasswordReset)
	v1.PATCH("/password_resets/:token", h.Accounts.ResetPassword)

	relationships := v1.Group("/relationships", requireUser)
	{
		relationships.POST("", h.Relationships.Follow)
		relationships.DELETE("/:id", h.Relationships.Unfollow)
	}

	microposts := v1.Group("/microposts", requireUser)
	{
		microposts.POST("", h.Microposts.CreateMicropost)
		microposts.DELETE("/:id", h.Microposts.DeleteMicropost)
	}

	v1.GET("/feed", requireUser, h.Microposts.Feed)
}
