package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single expense record submitted by a user.
// Amounts are exact decimals; float64 never touches money.
type Expense struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	ZoneID      uint            `gorm:"not null;index" json:"zone_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Description string          `gorm:"size:500" json:"description"`
	ExpenseDate time.Time       `gorm:"type:date;not null;index" json:"expense_date"`

	// Relationships
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Zone     *Zone     `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
}
