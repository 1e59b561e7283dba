package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spenza/internal/models"
	"spenza/internal/pagination"
	"spenza/internal/report"
)

// Scope bounds which zones a caller may see. It is built server-side from
// the authenticated user's role and zone memberships; a client-supplied
// role is never trusted.
type Scope struct {
	AllZones bool
	ZoneIDs  []uint
}

// AdminScope returns a scope covering every zone.
func AdminScope() Scope {
	return Scope{AllZones: true}
}

// ZoneScope returns a scope restricted to the given zone IDs.
func ZoneScope(zoneIDs []uint) Scope {
	return Scope{ZoneIDs: zoneIDs}
}

// Allows reports whether the scope permits access to the given zone.
func (s Scope) Allows(zoneID uint) bool {
	if s.AllZones {
		return true
	}
	for _, id := range s.ZoneIDs {
		if id == zoneID {
			return true
		}
	}
	return false
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	ListUsers(page pagination.PageRequest, search string) (*pagination.PageResponse[models.User], error)
	UpdateUserRole(userID uint, role models.Role) (*models.User, error)
	DeleteUser(userID uint) error
}

// CategoryServicer defines the contract for category management.
type CategoryServicer interface {
	CreateCategory(name, description string) (*models.Category, error)
	ListCategories(page pagination.PageRequest, search string) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(id uint) (*models.Category, error)
	UpdateCategory(id uint, name, description string) (*models.Category, error)
	DeleteCategory(id uint) error
}

// ZoneServicer defines the contract for zone management and membership.
type ZoneServicer interface {
	CreateZone(createdBy uint, name, description string) (*models.Zone, error)
	ListZones(page pagination.PageRequest, search string) (*pagination.PageResponse[models.Zone], error)
	GetZoneByID(id uint) (*models.Zone, error)
	UpdateZone(id uint, name, description string) (*models.Zone, error)
	DeleteZone(id uint) error
	AssignUser(zoneID, userID uint) error
	RemoveUser(zoneID, userID uint) error
	GetUserZoneIDs(userID uint) ([]uint, error)
}

// ExpenseFilter holds optional filter parameters for listing raw expenses.
type ExpenseFilter struct {
	CategoryID *uint
	ZoneID     *uint
	DateFrom   *time.Time
	DateTo     *time.Time
}

// ReportFilter describes the search and range constraints for a report
// query, before pagination.
type ReportFilter struct {
	Search     string
	CategoryID *uint
	ZoneID     *uint
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Normalize applies the lenient filter policy: an inverted date range
// (from after to) is treated as no date filter at all rather than an error.
func (f *ReportFilter) Normalize() {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		f.DateFrom = nil
		f.DateTo = nil
	}
}

// ExpenseServicer defines the contract for expense records: CRUD plus the
// read-only report record lookup.
type ExpenseServicer interface {
	CreateExpense(userID uint, scope Scope, zoneID, categoryID uint, amount decimal.Decimal, description string, expenseDate time.Time) (*models.Expense, error)
	ListExpenses(scope Scope, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(scope Scope, expenseID uint) (*models.Expense, error)
	UpdateExpense(expenseID, zoneID, categoryID uint, amount decimal.Decimal, description string, expenseDate time.Time) (*models.Expense, error)
	DeleteExpense(expenseID uint) error
	FindReportRecords(ctx context.Context, scope Scope, filter ReportFilter, dim report.Dimension) ([]report.Record, error)
}

// ReportResult is a page of aggregate rows plus the grand total over the
// entire filtered set.
type ReportResult struct {
	pagination.PageResponse[report.AggregateRow]
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// ReportServicer defines the contract for building paginated aggregate reports.
type ReportServicer interface {
	BuildReport(ctx context.Context, scope Scope, filter ReportFilter, dim report.Dimension, page pagination.PageRequest) (*ReportResult, error)
}

// AuditServicer defines the contract for recording audit events.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]any)
}
