package repository

import (
	"fmt"
	"time"

	"github.com/hfarooqi/tarikh-portal/internal/models"
)

// BadgeRepository handles badge-related database operations.
type BadgeRepository struct {
	db *DB
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// Create creates a new badge. A duplicate required-points threshold is a
// conflict, enforced by the unique index.
func (r *BadgeRepository) Create(badge *models.Badge) error {
	if err := r.db.Create(badge).Error; err != nil {
		return fmt.Errorf("failed to create badge: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a badge by its ID.
func (r *BadgeRepository) GetByID(id uint) (*models.Badge, error) {
	var badge models.Badge
	if err := r.db.First(&badge, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get badge %d: %w", id, translate(err))
	}
	return &badge, nil
}

// GetByThreshold retrieves a badge by its required point threshold.
func (r *BadgeRepository) GetByThreshold(threshold int) (*models.Badge, error) {
	var badge models.Badge
	if err := r.db.Where("required_points = ?", threshold).First(&badge).Error; err != nil {
		return nil, fmt.Errorf("failed to get badge with threshold %d: %w", threshold, translate(err))
	}
	return &badge, nil
}

// GetAll retrieves all badges ordered by ascending threshold, which is the
// order badge evaluation walks them in.
func (r *BadgeRepository) GetAll() ([]models.Badge, error) {
	var badges []models.Badge
	if err := r.db.Order("required_points ASC").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", translate(err))
	}
	return badges, nil
}

// AwardBadge awards a badge to a user. Awarding an already-held badge is a
// no-op, backed by the composite unique index on (user_id, badge_id).
func (r *BadgeRepository) AwardBadge(userID, badgeID uint) error {
	exists, err := r.HasUserEarnedBadge(userID, badgeID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	userBadge := &models.UserBadge{
		UserID:    userID,
		BadgeID:   badgeID,
		AwardedAt: time.Now(),
	}
	if err := r.db.Create(userBadge).Error; err != nil {
		return fmt.Errorf("failed to award badge %d to user %d: %w", badgeID, userID, translate(err))
	}
	return nil
}

// HasUserEarnedBadge checks if a user already holds a specific badge.
func (r *BadgeRepository) HasUserEarnedBadge(userID, badgeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check badge %d for user %d: %w", badgeID, userID, translate(err))
	}
	return count > 0, nil
}

// GetUserBadges retrieves all badges held by a user, newest award first.
func (r *BadgeRepository) GetUserBadges(userID uint) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Badge").
		Order("awarded_at DESC").
		Find(&userBadges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get badges for user %d: %w", userID, translate(err))
	}
	return userBadges, nil
}

// GetBadgeHoldersCount returns the number of users holding a badge.
func (r *BadgeRepository) GetBadgeHoldersCount(badgeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("badge_id = ?", badgeID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count holders of badge %d: %w", badgeID, translate(err))
	}
	return count, nil
}
