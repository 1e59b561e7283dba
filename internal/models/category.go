package models

// Category represents an expense category
type Category struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}
