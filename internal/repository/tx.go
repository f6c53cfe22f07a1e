package repository

import (
	"context"

	"gorm.io/gorm"
)

// Atomically runs fn inside a single database transaction: the transaction
// commits when fn returns nil and rolls back when fn returns an error or
// panics. Every multi-row mutation must go through here so that no reader
// can observe a half-applied unit of work.
//
// Repositories constructed on the tx handle see their own writes; callers
// see nothing until commit.
func Atomically(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
