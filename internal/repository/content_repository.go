package repository

import (
	"fmt"
	"time"

	"github.com/hfarooqi/tarikh-portal/internal/models"
)

// ContentRepository handles event, hadith and content link operations.
type ContentRepository struct {
	db *DB
}

// NewContentRepository creates a new content repository.
func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ModerationView is the minimal lifecycle view the workflow needs of an item.
type ModerationView struct {
	Kind        string
	ID          uint
	Status      string
	SubmittedBy uint
}

func modelForKind(kind string) (interface{}, error) {
	switch kind {
	case models.KindEvent:
		return &models.Event{}, nil
	case models.KindHadith:
		return &models.Hadith{}, nil
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
}

// CreateEvent creates a new event submission.
func (r *ContentRepository) CreateEvent(event *models.Event) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", translate(err))
	}
	return nil
}

// CreateHadith creates a new hadith submission.
func (r *ContentRepository) CreateHadith(hadith *models.Hadith) error {
	if err := r.db.Create(hadith).Error; err != nil {
		return fmt.Errorf("failed to create hadith: %w", translate(err))
	}
	return nil
}

// GetEvent retrieves an event by ID with its submitter preloaded.
func (r *ContentRepository) GetEvent(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.Preload("Submitter").First(&event, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, translate(err))
	}
	return &event, nil
}

// GetHadith retrieves a hadith by ID with its submitter preloaded.
func (r *ContentRepository) GetHadith(id uint) (*models.Hadith, error) {
	var hadith models.Hadith
	if err := r.db.Preload("Submitter").First(&hadith, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get hadith %d: %w", id, translate(err))
	}
	return &hadith, nil
}

// ListEventsByStatus lists events in a given status, newest first, paged.
func (r *ContentRepository) ListEventsByStatus(status string, limit, offset int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("status = ?", status).
		Preload("Submitter").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events by status %s: %w", status, translate(err))
	}
	return events, nil
}

// ListHadithsByStatus lists hadiths in a given status, newest first, paged.
func (r *ContentRepository) ListHadithsByStatus(status string, limit, offset int) ([]models.Hadith, error) {
	var hadiths []models.Hadith
	err := r.db.Where("status = ?", status).
		Preload("Submitter").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&hadiths).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hadiths by status %s: %w", status, translate(err))
	}
	return hadiths, nil
}

// CountByStatus counts items of a kind in a given status.
func (r *ContentRepository) CountByStatus(kind, status string) (int64, error) {
	model, err := modelForKind(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.Model(model).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s items by status %s: %w", kind, status, translate(err))
	}
	return count, nil
}

// GetModeration fetches the lifecycle state of one item.
func (r *ContentRepository) GetModeration(kind string, id uint) (*ModerationView, error) {
	model, err := modelForKind(kind)
	if err != nil {
		return nil, err
	}

	var row struct {
		Status      string
		SubmittedBy uint
	}
	err = r.db.Model(model).
		Select("status", "submitted_by").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", kind, id, translate(err))
	}
	return &ModerationView{Kind: kind, ID: id, Status: row.Status, SubmittedBy: row.SubmittedBy}, nil
}

// SetModeration writes the lifecycle columns of one item.
func (r *ContentRepository) SetModeration(kind string, id uint, status string, approvedBy *uint, approvedAt *time.Time) error {
	model, err := modelForKind(kind)
	if err != nil {
		return err
	}

	result := r.db.Model(model).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      status,
		"approved_by": approvedBy,
		"approved_at": approvedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update %s %d: %w", kind, id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update %s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

// Delete removes an item. Deleting an event also removes its content links;
// links targeting a deleted hadith are left dangling on purpose.
func (r *ContentRepository) Delete(kind string, id uint) error {
	model, err := modelForKind(kind)
	if err != nil {
		return err
	}

	if kind == models.KindEvent {
		if err := r.db.Where("event_id = ?", id).Delete(&models.ContentLink{}).Error; err != nil {
			return fmt.Errorf("failed to delete links for event %d: %w", id, translate(err))
		}
	}

	result := r.db.Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

// CountApprovedByUser counts a user's currently approved items of a kind.
func (r *ContentRepository) CountApprovedByUser(kind string, userID uint) (int64, error) {
	model, err := modelForKind(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.db.Model(model).
		Where("submitted_by = ? AND status = ?", userID, models.StatusApproved).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count approved %s items for user %d: %w", kind, userID, translate(err))
	}
	return count, nil
}

// CreateLink associates an event with an ayah or hadith.
func (r *ContentRepository) CreateLink(link *models.ContentLink) error {
	if err := r.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to create content link: %w", translate(err))
	}
	return nil
}

// ListLinksByEvent retrieves all links attached to an event.
func (r *ContentRepository) ListLinksByEvent(eventID uint) ([]models.ContentLink, error) {
	var links []models.ContentLink
	if err := r.db.Where("event_id = ?", eventID).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to list links for event %d: %w", eventID, translate(err))
	}
	return links, nil
}

// HadithExists reports whether a hadith row exists.
func (r *ContentRepository) HadithExists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Hadith{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check hadith %d: %w", id, translate(err))
	}
	return count > 0, nil
}
