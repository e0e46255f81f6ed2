package models

import (
	"time"
)

// Ayah is a scripture verse with its Urdu translation.
// Rows are immutable once ingested; (surah, ayah) is the natural key.
type Ayah struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Surah      int       `gorm:"column:surah_number;not null;uniqueIndex:idx_surah_ayah,priority:1" json:"surah_number"`
	Number     int       `gorm:"column:ayah_number;not null;uniqueIndex:idx_surah_ayah,priority:2" json:"ayah_number"`
	ArabicText string    `gorm:"type:text;not null" json:"arabic_text"`
	UrduText   string    `gorm:"type:text;not null" json:"urdu_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Ayah model.
func (Ayah) TableName() string {
	return "ayahs"
}

// SeedMarker records that a named one-time seed has been applied. The unique
// name doubles as the mutual exclusion guard for concurrent seed runs: two
// loaders racing on the same seed cannot both commit the marker insert.
type SeedMarker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	AppliedAt time.Time `gorm:"not null" json:"applied_at"`
}

// TableName specifies the table name for SeedMarker model.
func (SeedMarker) TableName() string {
	return "seed_markers"
}
