package models

import (
	"time"
)

// Badge represents an award earned by accumulating contribution points.
// Thresholds are globally unique, so ordering badges by threshold is total.
type Badge struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	NameEn        string    `gorm:"not null;size:100" json:"name_en"`
	NameUr        string    `gorm:"not null;size:100" json:"name_ur"`
	DescriptionEn string    `gorm:"type:text" json:"description_en"`
	DescriptionUr string    `gorm:"type:text" json:"description_ur"`
	Icon          string    `gorm:"size:50" json:"icon"`
	Threshold     int       `gorm:"column:required_points;uniqueIndex;not null" json:"required_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Badge model.
func (Badge) TableName() string {
	return "badges"
}

// UserBadge records that a user holds a badge. Awards are permanent; point
// decreases never remove rows here.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badge,priority:1" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BadgeID   uint      `gorm:"not null;uniqueIndex:idx_user_badge,priority:2" json:"badge_id"`
	Badge     Badge     `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
}

// TableName specifies the table name for UserBadge model.
func (UserBadge) TableName() string {
	return "user_badges"
}
