package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/repository"
	"github.com/Anay7520/ChatSphere/internal/service"
	"github.com/Anay7520/ChatSphere/pkg/response"
)

// AuthHandler serves registration and token endpoints.
type AuthHandler struct {
	users service.UserService
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	auth, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			response.Conflict(c, "email already registered")
		case errors.Is(err, repository.ErrUsernameExists):
			response.Conflict(c, "username already taken")
		case errors.Is(err, service.ErrWeakPassword):
			response.BadRequest(c, "password must contain upper, lower and digit characters")
		default:
			response.InternalError(c, "failed to register")
		}
		return
	}
	response.Created(c, auth)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	auth, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "invalid credentials")
		case errors.Is(err, service.ErrAccountInactive):
			response.Forbidden(c, "account is deactivated")
		default:
			response.InternalError(c, "failed to log in")
		}
		return
	}
	response.Success(c, auth)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	auth, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "invalid refresh token")
		case errors.Is(err, service.ErrAccountInactive):
			response.Forbidden(c, "account is deactivated")
		default:
			response.InternalError(c, "failed to refresh token")
		}
		return
	}
	response.Success(c, auth)
}
