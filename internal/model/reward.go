package model

import "time"

// Reward is something a user can spend points on. Redeeming it debits Cost
// from the owner's balance and changes no task.
type Reward struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Name        string
	Description string
	Cost        int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
