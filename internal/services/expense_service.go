package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spenza/internal/errors"
	"spenza/internal/models"
	"spenza/internal/pagination"
	"spenza/internal/report"
)

// expenseService owns persisted expense records.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense records a new expense. The submitting user must be allowed
// to post into the target zone by their scope.
func (s *expenseService) CreateExpense(userID uint, scope Scope, zoneID, categoryID uint, amount decimal.Decimal, description string, expenseDate time.Time) (*models.Expense, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if zoneID == 0 || categoryID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "zone ID and category ID are required")
	}
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}

	if !scope.Allows(zoneID) {
		return nil, apperrors.ErrZoneNotAssigned
	}

	var zone models.Zone
	if err := s.db.First(&zone, zoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrZoneNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		ZoneID:      zoneID,
		Amount:      amount,
		Description: description,
		ExpenseDate: expenseDate,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// ListExpenses returns a paginated, filtered list of raw expense records
// visible within the caller's scope.
func (s *expenseService) ListExpenses(scope Scope, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{})
	base = applyScope(base, scope, "zone_id")
	base = applyExpenseFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Category").
		Preload("Zone").
		Order("expense_date DESC, id DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyScope(q *gorm.DB, scope Scope, zoneColumn string) *gorm.DB {
	if scope.AllZones {
		return q
	}
	if len(scope.ZoneIDs) == 0 {
		// A user with no zone assignments sees nothing.
		return q.Where("1 = 0")
	}
	return q.Where(zoneColumn+" IN ?", scope.ZoneIDs)
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.ZoneID != nil {
		q = q.Where("zone_id = ?", *f.ZoneID)
	}
	if f.DateFrom != nil {
		q = q.Where("expense_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("expense_date <= ?", *f.DateTo)
	}
	return q
}

// GetExpenseByID retrieves an expense visible within the caller's scope.
func (s *expenseService) GetExpenseByID(scope Scope, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").Preload("Zone").First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !scope.Allows(expense.ZoneID) {
		// Hidden records are indistinguishable from missing ones.
		return nil, apperrors.ErrExpenseNotFound
	}
	return &expense, nil
}

// UpdateExpense edits an expense record. Only admins reach this path; the
// route enforces the role.
func (s *expenseService) UpdateExpense(expenseID, zoneID, categoryID uint, amount decimal.Decimal, description string, expenseDate time.Time) (*models.Expense, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	var expense models.Expense
	if err := s.db.First(&expense, expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var zone models.Zone
	if err := s.db.First(&zone, zoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrZoneNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expense.ZoneID = zoneID
	expense.CategoryID = categoryID
	expense.Amount = amount
	expense.Description = description
	if !expenseDate.IsZero() {
		expense.ExpenseDate = expenseDate
	}

	if err := s.db.Save(&expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// DeleteExpense hard-deletes an expense record.
func (s *expenseService) DeleteExpense(expenseID uint) error {
	result := s.db.Delete(&models.Expense{}, expenseID)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// reportSearchColumn maps a group dimension to the label column searched by
// the report filter's search text.
func reportSearchColumn(dim report.Dimension) string {
	switch dim {
	case report.DimensionUser:
		return "users.name"
	case report.DimensionCategory:
		return "categories.name"
	default:
		return "zones.name"
	}
}

// FindReportRecords returns every expense matching the filter, joined with
// the labels of all three dimensions. No pagination is applied here:
// filtering happens before aggregation so totals reflect the full filtered
// set, not one page of raw rows. The query runs under the caller's context
// deadline; on timeout or connection failure it fails with STORE_UNAVAILABLE.
func (s *expenseService) FindReportRecords(ctx context.Context, scope Scope, filter ReportFilter, dim report.Dimension) ([]report.Record, error) {
	if !scope.AllZones && len(scope.ZoneIDs) == 0 {
		return []report.Record{}, nil
	}

	q := s.db.WithContext(ctx).Table("expenses").
		Select("expenses.id AS expense_id, " +
			"expenses.user_id, users.name AS user_name, " +
			"expenses.category_id, categories.name AS category_name, " +
			"expenses.zone_id, zones.name AS zone_name, " +
			"expenses.amount, expenses.expense_date").
		Joins("JOIN users ON users.id = expenses.user_id").
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Joins("JOIN zones ON zones.id = expenses.zone_id")

	if !scope.AllZones {
		q = q.Where("expenses.zone_id IN ?", scope.ZoneIDs)
	}
	if filter.CategoryID != nil {
		q = q.Where("expenses.category_id = ?", *filter.CategoryID)
	}
	if filter.ZoneID != nil {
		q = q.Where("expenses.zone_id = ?", *filter.ZoneID)
	}
	// Date bounds are inclusive on both ends.
	if filter.DateFrom != nil {
		q = q.Where("expenses.expense_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("expenses.expense_date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		q = q.Where("LOWER("+reportSearchColumn(dim)+") LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var records []report.Record
	if err := q.Scan(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return records, nil
}
