package models

import (
	"time"
)

// Content kinds.
const (
	KindEvent  = "event"
	KindHadith = "hadith"
)

// Content item statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Event categories.
const (
	CategoryIslamic = "islamic"
	CategoryGeneral = "general"
)

// Link target kinds for ContentLink.
const (
	LinkTargetAyah   = "ayah"
	LinkTargetHadith = "hadith"
)

// Moderation carries the lifecycle fields shared by all submitted content.
// ApprovedBy/ApprovedAt are set iff the item has left the pending state.
type Moderation struct {
	Status      string     `gorm:"size:50;not null;default:pending;index" json:"status"` // 'pending', 'approved', 'rejected'
	SubmittedBy uint       `gorm:"not null;index" json:"submitted_by"`
	Submitter   User       `gorm:"foreignKey:SubmittedBy" json:"submitter,omitempty"`
	ApprovedBy  *uint      `json:"approved_by"`
	Approver    *User      `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at"`
}

// Event represents a bilingual historical event submission.
type Event struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TitleEn    string     `gorm:"size:255;not null" json:"title_en"`
	TitleUr    string     `gorm:"size:255;not null" json:"title_ur"`
	DetailEn   string     `gorm:"type:text;not null" json:"detail_en"`
	DetailUr   string     `gorm:"type:text;not null" json:"detail_ur"`
	EventDate  time.Time  `gorm:"not null;index" json:"event_date"` // may predate year 1
	Category   string     `gorm:"size:50;not null;index" json:"category"` // 'islamic' or 'general'
	Latitude   *float64   `json:"latitude"`
	Longitude  *float64   `json:"longitude"`
	Moderation `gorm:"embedded" json:"moderation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Event model.
func (Event) TableName() string {
	return "events"
}

// Hadith represents a bilingual hadith submission.
type Hadith struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TitleEn    string `gorm:"size:255;not null" json:"title_en"`
	TitleUr    string `gorm:"size:255;not null" json:"title_ur"`
	TextEn     string `gorm:"type:text;not null" json:"text_en"`
	TextUr     string `gorm:"type:text;not null" json:"text_ur"`
	SourceEn   string `gorm:"size:255" json:"source_en"`
	SourceUr   string `gorm:"size:255" json:"source_ur"`
	NarratorEn string `gorm:"size:255" json:"narrator_en"`
	NarratorUr string `gorm:"size:255" json:"narrator_ur"`
	Moderation `gorm:"embedded" json:"moderation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Hadith model.
func (Hadith) TableName() string {
	return "hadiths"
}

// Bookmark marks an item saved by a user.
// A user may bookmark a given item at most once per kind.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_item,priority:1" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ItemKind  string    `gorm:"size:50;not null;uniqueIndex:idx_bookmark_user_item,priority:2" json:"item_kind"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_item,priority:3" json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Bookmark model.
func (Bookmark) TableName() string {
	return "bookmarks"
}

// ContentLink is a loose association from an event to an ayah or hadith.
// Target existence is validated by the workflow at creation time only; there
// is no foreign key on the target, so a later target deletion leaves the
// link dangling and readers treat it as absent.
type ContentLink struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EventID    uint      `gorm:"not null;index" json:"event_id"`
	TargetKind string    `gorm:"size:50;not null" json:"target_kind"` // 'ayah' or 'hadith'
	TargetID   uint      `gorm:"not null" json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for ContentLink model.
func (ContentLink) TableName() string {
	return "content_links"
}
