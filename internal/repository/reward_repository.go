package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"chorepoints/internal/model"
)

// RewardRepository handles CRUD for rewards, scoped to the owning user.
type RewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

func (r *RewardRepository) Create(ctx context.Context, reward *model.Reward) error {
	if err := r.db.WithContext(ctx).Create(reward).Error; err != nil {
		return fmt.Errorf("create reward: %w", err)
	}
	return nil
}

func (r *RewardRepository) FindByID(ctx context.Context, userID, rewardID uint) (*model.Reward, error) {
	var reward model.Reward
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, rewardID).First(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *RewardRepository) ListByUser(ctx context.Context, userID uint) ([]model.Reward, error) {
	var rewards []model.Reward
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

func (r *RewardRepository) Save(ctx context.Context, reward *model.Reward) error {
	if err := r.db.WithContext(ctx).Save(reward).Error; err != nil {
		return fmt.Errorf("save reward %d: %w", reward.ID, err)
	}
	return nil
}

// Delete reports gorm.ErrRecordNotFound when nothing matched.
func (r *RewardRepository) Delete(ctx context.Context, userID, rewardID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, rewardID).
		Delete(&model.Reward{})
	if res.Error != nil {
		return fmt.Errorf("delete reward %d: %w", rewardID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
