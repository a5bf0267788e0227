package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Anay7520/ChatSphere/internal/config"
	"github.com/Anay7520/ChatSphere/internal/middleware"
	"github.com/Anay7520/ChatSphere/internal/realtime"
	"github.com/Anay7520/ChatSphere/pkg/token"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Chats    *ChatHandler
	Messages *MessageHandler
	Gateway  *realtime.Gateway
}

// RegisterRoutes mounts the REST surface under /api/v1 and the
// realtime endpoint at /ws. The rate limiter guards the REST surface
// only; the WebSocket is authenticated at upgrade instead.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens *token.Manager, rl config.RateLimitConfig) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/ws", h.Gateway.HandleWS)

	api := r.Group("/api/v1", middleware.RateLimit(rl.RPS, rl.Burst))

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	authed := api.Group("", middleware.Auth(tokens))
	{
		authed.GET("/auth/me", h.Users.Me)

		authed.GET("/users/me", h.Users.Me)
		authed.PUT("/users/me", h.Users.UpdateMe)
		authed.DELETE("/users/me", h.Users.DeactivateMe)
		authed.GET("/users/search", h.Users.Search)
		authed.GET("/users/:id", h.Users.Get)

		authed.GET("/chats", h.Chats.List)
		authed.POST("/chats", h.Chats.Create)
		authed.GET("/chats/:id", h.Chats.Get)
		authed.PUT("/chats/:id", h.Chats.Update)
		authed.DELETE("/chats/:id", h.Chats.Archive)
		authed.POST("/chats/:id/participants", h.Chats.AddParticipant)
		authed.DELETE("/chats/:id/participants/:user_id", h.Chats.RemoveParticipant)

		authed.GET("/chats/:id/messages", h.Messages.List)
		authed.POST("/chats/:id/messages", h.Messages.Send)
		authed.POST("/chats/:id/read", h.Messages.MarkRead)

		authed.PUT("/messages/:message_id", h.Messages.Edit)
		authed.DELETE("/messages/:message_id", h.Messages.Delete)
		authed.POST("/messages/:message_id/reactions", h.Messages.React)
		authed.DELETE("/messages/:message_id/reactions/:emoji", h.Messages.Unreact)
	}
}
