package models

// Zone is an organizational grouping that expenses and users can be
// assigned to. Users only see expenses in zones they are members of.
type Zone struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	CreatedBy   uint   `gorm:"not null" json:"created_by"`

	// Relationships
	Creator  *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Members  []User    `gorm:"many2many:user_zones" json:"members,omitempty"`
	Expenses []Expense `gorm:"foreignKey:ZoneID" json:"expenses,omitempty"`
}
