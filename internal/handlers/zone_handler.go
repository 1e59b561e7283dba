package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spenza/internal/errors"
	"spenza/internal/pagination"
	"spenza/internal/services"
)

// ZoneHandler handles zone management requests.
type ZoneHandler struct {
	zoneService  services.ZoneServicer
	auditService services.AuditServicer
}

// NewZoneHandler creates a new ZoneHandler.
func NewZoneHandler(zoneService services.ZoneServicer, auditService services.AuditServicer) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneService, auditService: auditService}
}

// ZoneRequest represents the payload for creating or updating a zone
type ZoneRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// AssignMemberRequest represents the payload for assigning a user to a zone
type AssignMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// ListZones returns a paginated zone list
// @Summary     List zones
// @Description Get a paginated list of zones with optional name search
// @Tags        zones
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       search query string false "Name substring"
// @Success     200 {object} pagination.PageResponse[models.Zone] "Zones"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /zones [get]
func (h *ZoneHandler) ListZones(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.zoneService.ListZones(page, c.Query("search"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateZone creates a zone
// @Summary     Create a zone
// @Description Create a new zone (admin only)
// @Tags        zones
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ZoneRequest true "Zone details"
// @Success     201 {object} models.Zone "Zone created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /zones [post]
func (h *ZoneHandler) CreateZone(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	zone, err := h.zoneService.CreateZone(adminID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "CREATE_ZONE", "zone", zone.ID, c.ClientIP(),
		map[string]any{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"zone": zone})
}

// UpdateZone updates a zone
// @Summary     Update a zone
// @Description Update a zone's name and description (admin only)
// @Tags        zones
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Zone ID"
// @Param       request body ZoneRequest true "Zone details"
// @Success     200 {object} models.Zone "Zone updated"
// @Failure     404 {object} ErrorResponse "Zone not found"
// @Router      /zones/{id} [put]
func (h *ZoneHandler) UpdateZone(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	zoneID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	zone, err := h.zoneService.UpdateZone(zoneID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "UPDATE_ZONE", "zone", zoneID, c.ClientIP(),
		map[string]any{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"zone": zone})
}

// DeleteZone removes a zone
// @Summary     Delete a zone
// @Description Delete a zone; refused while expenses reference it (admin only)
// @Tags        zones
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Zone ID"
// @Success     204 "Zone deleted"
// @Failure     404 {object} ErrorResponse "Zone not found"
// @Failure     409 {object} ErrorResponse "Zone in use"
// @Router      /zones/{id} [delete]
func (h *ZoneHandler) DeleteZone(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	zoneID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.zoneService.DeleteZone(zoneID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "DELETE_ZONE", "zone", zoneID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// AssignMember adds a user to a zone
// @Summary     Assign a user to a zone
// @Description Add a user to a zone's members (admin only)
// @Tags        zones
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Zone ID"
// @Param       request body AssignMemberRequest true "User to assign"
// @Success     204 "User assigned"
// @Failure     404 {object} ErrorResponse "Zone or user not found"
// @Failure     409 {object} ErrorResponse "Already a member"
// @Router      /zones/{id}/members [post]
func (h *ZoneHandler) AssignMember(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	zoneID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssignMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.zoneService.AssignUser(zoneID, req.UserID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "ASSIGN_ZONE_MEMBER", "zone", zoneID, c.ClientIP(),
		map[string]any{"user_id": req.UserID})

	c.Status(http.StatusNoContent)
}

// RemoveMember removes a user from a zone
// @Summary     Remove a user from a zone
// @Description Remove a user from a zone's members (admin only)
// @Tags        zones
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Zone ID"
// @Param       userID path int true "User ID"
// @Success     204 "User removed"
// @Failure     404 {object} ErrorResponse "Zone or user not found"
// @Router      /zones/{id}/members/{userID} [delete]
func (h *ZoneHandler) RemoveMember(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	zoneID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "userID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.zoneService.RemoveUser(zoneID, userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "REMOVE_ZONE_MEMBER", "zone", zoneID, c.ClientIP(),
		map[string]any{"user_id": userID})

	c.Status(http.StatusNoContent)
}
