package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chorepoints/internal/repository"
)

// PointsService is the per-user points ledger. Balances have no floor or
// ceiling; a redemption can push a user negative.
type PointsService struct {
	users *repository.UserRepository
}

// NewPointsService binds the ledger to a database handle. Pass a transaction
// handle to make the adjustment part of a larger unit of work.
func NewPointsService(db *gorm.DB) *PointsService {
	return &PointsService{users: repository.NewUserRepository(db)}
}

// Adjust adds delta to the user's balance (positive for task completion,
// negative for reward redemption) and returns the new balance.
func (s *PointsService) Adjust(ctx context.Context, userID uint, delta int) (int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The caller is authenticated, so the row must exist.
			return 0, fmt.Errorf("adjust points for user %d: %w", userID, ErrUserNotFound)
		}
		return 0, fmt.Errorf("adjust points for user %d: %w", userID, err)
	}
	user.Points += delta
	if err := s.users.Save(ctx, user); err != nil {
		return 0, err
	}
	return user.Points, nil
}
