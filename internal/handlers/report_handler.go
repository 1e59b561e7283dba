package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spenza/internal/errors"
	"spenza/internal/pagination"
	"spenza/internal/report"
	"spenza/internal/services"
)

// ReportHandler handles aggregate report requests.
type ReportHandler struct {
	reportService services.ReportServicer
	zoneService   services.ZoneServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, zoneService services.ZoneServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, zoneService: zoneService}
}

// ReportQuery holds the query parameters for a report request. Only a
// malformed group_by is rejected; everything else is normalized — bad page
// values fall back to defaults and unusable date bounds are dropped.
type ReportQuery struct {
	GroupBy    string `form:"group_by"`
	Search     string `form:"search"`
	CategoryID *uint  `form:"category_id"`
	ZoneID     *uint  `form:"zone_id"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// lenientDate parses a YYYY-MM-DD value, returning nil for anything
// unusable in line with the report filter's lenient policy.
func lenientDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

// GetReport builds a grouped aggregate report
// @Summary     Build an aggregate report
// @Description Group filtered expenses by user, category, or zone and return paginated totals plus the grand total over the whole filtered set
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       group_by query string true "Grouping dimension" Enums(user, category, zone)
// @Param       search query string false "Case-insensitive substring match on the grouped dimension's label"
// @Param       category_id query int false "Filter by category"
// @Param       zone_id query int false "Filter by zone"
// @Param       date_from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       date_to query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} services.ReportResult "Aggregate rows and grand total"
// @Failure     400 {object} ErrorResponse "Invalid group_by"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Report unavailable"
// @Router      /reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	scope, err := buildScope(c, h.zoneService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dim, ok := report.ParseDimension(query.GroupBy)
	if !ok {
		respondWithError(c, apperrors.ErrInvalidGroupBy)
		return
	}

	filter := services.ReportFilter{
		Search:     query.Search,
		CategoryID: query.CategoryID,
		ZoneID:     query.ZoneID,
		DateFrom:   lenientDate(query.DateFrom),
		DateTo:     lenientDate(query.DateTo),
	}

	page := pagination.PageRequest{Page: query.Page, PageSize: query.PageSize}

	result, err := h.reportService.BuildReport(c.Request.Context(), scope, filter, dim, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
