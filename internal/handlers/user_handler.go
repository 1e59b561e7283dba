package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spenza/internal/errors"
	"spenza/internal/models"
	"spenza/internal/pagination"
	"spenza/internal/services"
)

// UserHandler handles admin user management requests.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// UpdateRoleRequest represents the payload for changing a user's role
type UpdateRoleRequest struct {
	Role models.Role `json:"role" binding:"required,role"`
}

// ListUsers returns a paginated user list
// @Summary     List users
// @Description Get a paginated list of users with optional name/email search (admin only)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       search query string false "Name or email substring"
// @Success     200 {object} pagination.PageResponse[models.User] "Users"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.userService.ListUsers(page, c.Query("search"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateRole changes a user's role
// @Summary     Update user role
// @Description Promote or demote a user between admin and user roles (admin only)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Param       request body UpdateRoleRequest true "New role"
// @Success     200 {object} UserResponse "Updated user"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateUserRole(targetID, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "UPDATE_USER_ROLE", "user", targetID, c.ClientIP(),
		map[string]any{"role": req.Role})

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// DeleteUser removes a user
// @Summary     Delete a user
// @Description Delete a user account; refused while expenses reference the user (admin only)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Success     204 "User deleted"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "User has recorded expenses"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(targetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "DELETE_USER", "user", targetID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
