package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/middleware"
	"github.com/Anay7520/ChatSphere/internal/service"
	"github.com/Anay7520/ChatSphere/pkg/response"
)

// UserHandler serves profile and user search endpoints.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates the user handler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load profile")
		return
	}
	response.Success(c, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Update(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to update profile")
		return
	}
	response.Success(c, user)
}

func (h *UserHandler) DeactivateMe(c *gin.Context) {
	if err := h.users.Deactivate(c.Request.Context(), middleware.UserID(c)); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to deactivate account")
		return
	}
	response.Success(c, gin.H{"deactivated": true})
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load user")
		return
	}
	response.Success(c, user)
}

func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "query parameter q is required")
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	result, err := h.users.Search(c.Request.Context(), query, limit, middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "failed to search users")
		return
	}
	response.Success(c, result)
}
