package models

import "time"

// Base contains common columns for all tables. Deletes in this system are
// hard deletes, so there is no soft-delete column.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
