package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/statement-ledger/internal/api/service"
	"github.com/statement-ledger/internal/domain/user"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *slog.Logger, userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Create handles registration of a new user, rejecting duplicate emails
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.userService.CreateUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		var duplicateEmailErr user.ErrDuplicateEmail
		if errors.As(err, &duplicateEmailErr) {
			h.logger.Warn("Attempt to register duplicate email", "email", duplicateEmailErr.Email)
			RespondConflict(c, "User with this email already exists")
			return
		}
		if errors.Is(err, user.ErrEmptyName) || errors.Is(err, user.ErrInvalidEmail) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create user", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapUserToResponse(u))
}

// GetByID retrieves a user by its ID, returning 404 if not found
func (h *UserHandler) GetByID(c *gin.Context) {
	idParam := c.Param("user_id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid user ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	u, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound{}) {
			RespondNotFound(c, "User not found")
			return
		}
		h.logger.Error("Failed to get user", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapUserToResponse(u))
}

// mapUserToResponse maps a user entity to a user response DTO
func mapUserToResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}
