package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chorepoints/internal/model"
	"chorepoints/internal/repository"
)

// RewardInput carries the user-editable fields of a reward.
type RewardInput struct {
	Name        string
	Description string
	Cost        int
}

// RewardService manages rewards and their redemption against the points
// ledger.
type RewardService struct {
	db      *gorm.DB
	rewards *repository.RewardRepository
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{db: db, rewards: repository.NewRewardRepository(db)}
}

func (s *RewardService) Create(ctx context.Context, userID uint, input RewardInput) (*model.Reward, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	reward := model.Reward{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Cost:        input.Cost,
	}
	if err := s.rewards.Create(ctx, &reward); err != nil {
		return nil, err
	}
	return &reward, nil
}

func (s *RewardService) Get(ctx context.Context, userID, rewardID uint) (*model.Reward, error) {
	reward, err := s.rewards.FindByID(ctx, userID, rewardID)
	if err != nil {
		return nil, rewardLookupErr(rewardID, err)
	}
	return reward, nil
}

func (s *RewardService) List(ctx context.Context, userID uint) ([]model.Reward, error) {
	return s.rewards.ListByUser(ctx, userID)
}

func (s *RewardService) Update(ctx context.Context, userID, rewardID uint, input RewardInput) (*model.Reward, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	reward, err := s.rewards.FindByID(ctx, userID, rewardID)
	if err != nil {
		return nil, rewardLookupErr(rewardID, err)
	}
	reward.Name = input.Name
	reward.Description = input.Description
	reward.Cost = input.Cost
	if err := s.rewards.Save(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

func (s *RewardService) Delete(ctx context.Context, userID, rewardID uint) error {
	if err := s.rewards.Delete(ctx, userID, rewardID); err != nil {
		return rewardLookupErr(rewardID, err)
	}
	return nil
}

// Redeem debits the reward's cost from the owner's balance and returns the
// new balance. Redemption always succeeds regardless of the current
// balance; the ledger has no floor. The lookup and the debit share a
// transaction so a concurrently deleted reward cannot leave a dangling
// debit.
func (s *RewardService) Redeem(ctx context.Context, userID, rewardID uint) (int, error) {
	var balance int
	err := repository.Atomically(ctx, s.db, func(tx *gorm.DB) error {
		reward, err := repository.NewRewardRepository(tx).FindByID(ctx, userID, rewardID)
		if err != nil {
			return rewardLookupErr(rewardID, err)
		}
		balance, err = NewPointsService(tx).Adjust(ctx, userID, -reward.Cost)
		return err
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func rewardLookupErr(rewardID uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("reward %d: %w", rewardID, ErrRewardNotFound)
	}
	return fmt.Errorf("reward %d: %w", rewardID, err)
}
