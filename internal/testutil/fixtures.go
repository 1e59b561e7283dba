package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spenza/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active user with the default role and a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, models.RoleUser)
}

// CreateTestAdmin creates an active user with the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, models.RoleAdmin)
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", n),
		Password: string(hash),
		Name:     fmt.Sprintf("User %d", n),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{Name: fmt.Sprintf("Category %d", nextID())}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestZone creates a zone with a unique name owned by the given user.
func CreateTestZone(t *testing.T, db *gorm.DB, createdBy uint) *models.Zone {
	t.Helper()

	zone := &models.Zone{Name: fmt.Sprintf("Zone %d", nextID()), CreatedBy: createdBy}
	if err := db.Create(zone).Error; err != nil {
		t.Fatalf("failed to create test zone: %v", err)
	}
	return zone
}

// AssignUserToZone adds a user to a zone's members.
func AssignUserToZone(t *testing.T, db *gorm.DB, user *models.User, zone *models.Zone) {
	t.Helper()

	if err := db.Model(zone).Association("Members").Append(user); err != nil {
		t.Fatalf("failed to assign user to zone: %v", err)
	}
}

// CreateTestExpense creates an expense with the given amount (a decimal string)
// and expense date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID, zoneID uint, amount string, date time.Time) *models.Expense {
	t.Helper()

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("invalid test amount %q: %v", amount, err)
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		ZoneID:      zoneID,
		Amount:      amt,
		ExpenseDate: date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
