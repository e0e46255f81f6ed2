package repository

import (
	"fmt"

	"github.com/hfarooqi/tarikh-portal/internal/models"
)

// BookmarkRepository handles bookmark database operations.
type BookmarkRepository struct {
	db *DB
}

// NewBookmarkRepository creates a new bookmark repository.
func NewBookmarkRepository(db *DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Create stores a bookmark. Bookmarking the same item twice is a conflict,
// enforced by the (user, kind, item) unique index.
func (r *BookmarkRepository) Create(bookmark *models.Bookmark) error {
	if err := r.db.Create(bookmark).Error; err != nil {
		return fmt.Errorf("failed to create bookmark: %w", translate(err))
	}
	return nil
}

// Delete removes a user's bookmark on an item.
func (r *BookmarkRepository) Delete(userID uint, itemKind string, itemID uint) error {
	result := r.db.
		Where("user_id = ? AND item_kind = ? AND item_id = ?", userID, itemKind, itemID).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete bookmark: %w", translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete bookmark: %w", ErrNotFound)
	}
	return nil
}

// ListByUser retrieves all bookmarks of a user, newest first.
func (r *BookmarkRepository) ListByUser(userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&bookmarks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks for user %d: %w", userID, translate(err))
	}
	return bookmarks, nil
}
