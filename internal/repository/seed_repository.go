package repository

import (
	"fmt"
	"time"

	"github.com/hfarooqi/tarikh-portal/internal/models"
)

// SeedRepository tracks one-time seeds through persisted markers instead of
// inferring seeding state from row counts.
type SeedRepository struct {
	db *DB
}

// NewSeedRepository creates a new seed repository.
func NewSeedRepository(db *DB) *SeedRepository {
	return &SeedRepository{db: db}
}

// IsApplied reports whether a named seed has already run.
func (r *SeedRepository) IsApplied(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.SeedMarker{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check seed marker %s: %w", name, translate(err))
	}
	return count > 0, nil
}

// MarkApplied records that a named seed has run. Inserting an existing marker
// is a conflict; concurrent seed runs race on this row and only one commits.
func (r *SeedRepository) MarkApplied(name string) error {
	marker := &models.SeedMarker{Name: name, AppliedAt: time.Now()}
	if err := r.db.Create(marker).Error; err != nil {
		return fmt.Errorf("failed to mark seed %s applied: %w", name, translate(err))
	}
	return nil
}
