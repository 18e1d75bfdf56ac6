package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/interfaces/http/response"
	"smilecare.backend/internal/interfaces/http/upload"
)

// UserService manages accounts
type UserService interface {
	List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	Create(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.UserUpdate) (*entities.User, error)
	SetStatus(ctx context.Context, id uuid.UUID, active bool) (*entities.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.ProfileUpdateInput, picture *entities.FileMeta) (*entities.User, string, error)
}

// UserHandler handles user endpoints
type UserHandler struct {
	userService UserService
	uploads     FileStager
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, uploads FileStager) *UserHandler {
	return &UserHandler{userService: userService, uploads: uploads}
}

// ListUsers lists accounts
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	q := newQueryFilters(c)
	filter := entities.UserFilter{
		PaginationParams: paginationFrom(c),
		IsActive:         q.optBool("is_active"),
		Search:           q.text("search"),
	}
	if raw := q.text("user_type"); raw != "" {
		role, err := entities.ParseUserRole(raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("Invalid user_type"))
			return
		}
		filter.UserType = &role
	}
	if !q.done() {
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondList(c, users, total, filter.PaginationParams)
}

// GetUser gets a user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// CreateUser creates an account of any role
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input entities.CreateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "User created successfully", user)
}

// UpdateUser edits an account
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	var input entities.UserUpdate
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "User updated successfully", user)
}

// SetUserStatus activates or deactivates an account
// PATCH /api/v1/users/:id/status
func (h *UserHandler) SetUserStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	var input entities.StatusInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.SetStatus(c.Request.Context(), id, *input.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "User deactivated successfully"
	if *input.IsActive {
		message = "User activated successfully"
	}
	response.SuccessWithMessage(c, http.StatusOK, message, user)
}

// DeleteUser removes an account and its uploaded picture
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if user.ProfilePicture.Valid {
		h.uploads.DeleteURL(c.Request.Context(), user.ProfilePicture.String)
	}
	response.SuccessWithMessage(c, http.StatusOK, "User deleted successfully", user)
}

// UpdateProfile edits the caller's own profile, optionally replacing the picture
// PUT /api/v1/users/me/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	batch, err := h.uploads.Stage(c, upload.ProfilePicture, "profilePicture")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer batch.Cleanup(ctx)

	var input entities.ProfileUpdateInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, previous, err := h.userService.UpdateProfile(ctx, actor.ID, &input, batch.First())
	if err != nil {
		response.Error(c, err)
		return
	}
	batch.Commit()
	if previous != "" {
		h.uploads.DeleteURL(ctx, previous)
	}

	response.SuccessWithMessage(c, http.StatusOK, "Profile updated successfully", user)
}
