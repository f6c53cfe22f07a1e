package model

import "time"

// User is an account with a running points balance. The balance is mutated
// only by the points ledger and may go negative.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex"`
	PasswordHash   []byte
	Salt           []byte
	Points         int
	TelegramChatID *int64 `gorm:"index"` // set when the user links a chat for daily reports
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
