package repository

import (
	"fmt"

	"github.com/hfarooqi/tarikh-portal/internal/models"
)

// VerseRepository handles scripture verse operations. Verses are written only
// by the ingestion pipeline and never updated afterwards.
type VerseRepository struct {
	db *DB
}

// NewVerseRepository creates a new verse repository.
func NewVerseRepository(db *DB) *VerseRepository {
	return &VerseRepository{db: db}
}

// Count returns the number of verses in the table.
func (r *VerseRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Ayah{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count verses: %w", translate(err))
	}
	return count, nil
}

// BulkInsert inserts a batch of verses. A duplicate (surah, ayah) key is a
// conflict and fails the whole statement.
func (r *VerseRepository) BulkInsert(verses []models.Ayah) error {
	if len(verses) == 0 {
		return nil
	}
	if err := r.db.Create(&verses).Error; err != nil {
		return fmt.Errorf("failed to bulk insert %d verses: %w", len(verses), translate(err))
	}
	return nil
}

// GetByKey retrieves one verse by its (surah, ayah) composite key.
func (r *VerseRepository) GetByKey(surah, number int) (*models.Ayah, error) {
	var ayah models.Ayah
	err := r.db.Where("surah_number = ? AND ayah_number = ?", surah, number).First(&ayah).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ayah %d:%d: %w", surah, number, translate(err))
	}
	return &ayah, nil
}

// GetByID retrieves one verse by row id.
func (r *VerseRepository) GetByID(id uint) (*models.Ayah, error) {
	var ayah models.Ayah
	if err := r.db.First(&ayah, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get ayah %d: %w", id, translate(err))
	}
	return &ayah, nil
}

// ListBySurah retrieves all verses of one surah in recitation order.
func (r *VerseRepository) ListBySurah(surah int) ([]models.Ayah, error) {
	var ayahs []models.Ayah
	err := r.db.Where("surah_number = ?", surah).Order("ayah_number ASC").Find(&ayahs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list verses of surah %d: %w", surah, translate(err))
	}
	return ayahs, nil
}

// Exists reports whether a verse row exists.
func (r *VerseRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Ayah{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ayah %d: %w", id, translate(err))
	}
	return count > 0, nil
}
