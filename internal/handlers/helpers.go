package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spenza/internal/errors"
	"spenza/internal/logger"
	"spenza/internal/models"
	"spenza/internal/services"
)

// ErrorResponse documents the error envelope for swagger.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	return userID.(uint), nil
}

// getRole extracts the authenticated user's role from the Gin context.
func getRole(c *gin.Context) (models.Role, error) {
	role, exists := c.Get("role")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	return role.(models.Role), nil
}

// buildScope derives the caller's zone scope server-side: admins see every
// zone, regular users see only the zones they are assigned to. The role
// comes from the verified token, never from request input.
func buildScope(c *gin.Context, zoneService services.ZoneServicer) (services.Scope, error) {
	userID, err := getUserID(c)
	if err != nil {
		return services.Scope{}, err
	}
	role, err := getRole(c)
	if err != nil {
		return services.Scope{}, err
	}

	if role == models.RoleAdmin {
		return services.AdminScope(), nil
	}

	zoneIDs, err := zoneService.GetUserZoneIDs(userID)
	if err != nil {
		return services.Scope{}, err
	}
	return services.ZoneScope(zoneIDs), nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// parseDateOnly parses a calendar date in YYYY-MM-DD form.
func parseDateOnly(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "dates must be in YYYY-MM-DD format")
	}
	return t, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
