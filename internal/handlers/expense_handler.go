package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spenza/internal/errors"
	"spenza/internal/pagination"
	"spenza/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	zoneService    services.ZoneServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, zoneService services.ZoneServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, zoneService: zoneService, auditService: auditService}
}

// ExpenseRequest represents the payload for creating or editing an expense.
// Amount is a decimal string so money never round-trips through floats.
type ExpenseRequest struct {
	ZoneID      uint    `json:"zone_id" binding:"required"`
	CategoryID  uint    `json:"category_id" binding:"required"`
	Amount      string  `json:"amount" binding:"required"`
	Description string  `json:"description" binding:"max=500"`
	ExpenseDate *string `json:"expense_date" binding:"omitempty,date_only"`
}

// ExpenseListQuery holds the query parameters for listing expenses
type ExpenseListQuery struct {
	pagination.PageRequest
	ZoneID     *uint  `form:"zone_id"`
	CategoryID *uint  `form:"category_id"`
	DateFrom   string `form:"date_from" binding:"omitempty,date_only"`
	DateTo     string `form:"date_to" binding:"omitempty,date_only"`
}

func (r *ExpenseRequest) parse() (decimal.Decimal, time.Time, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, time.Time{}, apperrors.ErrInvalidAmount
	}

	var expenseDate time.Time
	if r.ExpenseDate != nil && *r.ExpenseDate != "" {
		expenseDate, err = parseDateOnly(*r.ExpenseDate)
		if err != nil {
			return decimal.Zero, time.Time{}, err
		}
	}
	return amount, expenseDate, nil
}

func (q *ExpenseListQuery) filter() (services.ExpenseFilter, error) {
	filter := services.ExpenseFilter{
		ZoneID:     q.ZoneID,
		CategoryID: q.CategoryID,
	}
	if q.DateFrom != "" {
		from, err := parseDateOnly(q.DateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := parseDateOnly(q.DateTo)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &to
	}
	return filter, nil
}

// CreateExpense records a new expense
// @Summary     Submit an expense
// @Description Record a new expense in a zone the caller is assigned to
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Zone not assigned"
// @Failure     404 {object} ErrorResponse "Zone or category not found"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scope, err := buildScope(c, h.zoneService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, expenseDate, err := req.parse()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, scope, req.ZoneID, req.CategoryID, amount, req.Description, expenseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// ListExpenses returns a paginated expense list
// @Summary     List expenses
// @Description Get a paginated, filtered list of expenses visible to the caller
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       zone_id query int false "Filter by zone"
// @Param       category_id query int false "Filter by category"
// @Param       date_from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       date_to query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	scope, err := buildScope(c, h.zoneService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ExpenseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := query.filter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.ListExpenses(scope, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense returns one expense
// @Summary     Get an expense
// @Description Get an expense by ID if it is visible to the caller
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	scope, err := buildScope(c, h.zoneService)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(scope, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense edits an expense
// @Summary     Edit an expense
// @Description Edit an existing expense record (admin only)
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Param       request body ExpenseRequest true "Expense details"
// @Success     200 {object} models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, expenseDate, err := req.parse()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(expenseID, req.ZoneID, req.CategoryID, amount, req.Description, expenseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(),
		map[string]any{"amount": req.Amount, "zone_id": req.ZoneID, "category_id": req.CategoryID})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense removes an expense
// @Summary     Delete an expense
// @Description Hard-delete an expense record (admin only)
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
