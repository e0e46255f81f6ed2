package repository

import (
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hfarooqi/tarikh-portal/internal/models"
)

// setupBadgeTestDB creates an in-memory SQLite database for testing.
func setupBadgeTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(
		&models.User{},
		&models.Badge{},
		&models.UserBadge{},
	)
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

// createTestBadge creates a test badge in the database.
func createTestBadge(t *testing.T, repo *BadgeRepository, nameEn string, threshold int) *models.Badge {
	t.Helper()

	badge := &models.Badge{
		NameEn:        nameEn,
		NameUr:        "تمغہ",
		DescriptionEn: "Test badge",
		DescriptionUr: "آزمائشی تمغہ",
		Icon:          "🏆",
		Threshold:     threshold,
	}

	err := repo.Create(badge)
	if err != nil {
		t.Fatalf("Failed to create test badge: %v", err)
	}

	return badge
}

func TestBadgeRepository_Create(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)

	badge := &models.Badge{
		NameEn:    "Contributor",
		NameUr:    "معاون",
		Icon:      "⭐",
		Threshold: 10,
	}

	err := repo.Create(badge)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if badge.ID == 0 {
		t.Error("Expected badge ID to be set after creation")
	}
}

func TestBadgeRepository_Create_DuplicateThreshold(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)

	createTestBadge(t, repo, "Contributor", 10)

	duplicate := &models.Badge{
		NameEn:    "Another",
		NameUr:    "دوسرا",
		Threshold: 10,
	}
	err := repo.Create(duplicate)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate threshold, got %v", err)
	}
}

func TestBadgeRepository_GetByThreshold(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)

	createTestBadge(t, repo, "Historian", 50)

	badge, err := repo.GetByThreshold(50)
	if err != nil {
		t.Fatalf("GetByThreshold() failed: %v", err)
	}

	if badge.NameEn != "Historian" {
		t.Errorf("Expected name 'Historian', got %q", badge.NameEn)
	}

	_, err = repo.GetByThreshold(9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBadgeRepository_GetAll_OrderedByThreshold(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)

	// Insert out of order; evaluation relies on ascending threshold order
	createTestBadge(t, repo, "Scholar", 100)
	createTestBadge(t, repo, "Contributor", 10)
	createTestBadge(t, repo, "Historian", 50)

	badges, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll() failed: %v", err)
	}

	if len(badges) != 3 {
		t.Fatalf("Expected 3 badges, got %d", len(badges))
	}

	if badges[0].Threshold != 10 || badges[1].Threshold != 50 || badges[2].Threshold != 100 {
		t.Errorf("Expected thresholds [10 50 100], got [%d %d %d]",
			badges[0].Threshold, badges[1].Threshold, badges[2].Threshold)
	}
}

func TestBadgeRepository_AwardBadge(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)

	user := createTestUser(t, db, "alice", models.RoleUser)
	badge := createTestBadge(t, repo, "Contributor", 10)

	err := repo.AwardBadge(user.ID, badge.ID)
	if err != nil {
		t.Fatalf("AwardBadge() failed: %v", err)
	}

	hasEarned, err := repo.HasUserEarnedBadge(user.ID, badge.ID)
	if err != nil {
		t.Fatalf("HasUserEarnedBadge() failed: %v", err)
	}

	if !hasEarned {
		t.Error("Expected user to hold the badge")
	}
}

func TestBadgeRepository_AwardBadge_Idempotent(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)

	user := createTestUser(t, db, "bob", models.RoleUser)
	badge := createTestBadge(t, repo, "Contributor", 10)

	err := repo.AwardBadge(user.ID, badge.ID)
	if err != nil {
		t.Fatalf("First AwardBadge() failed: %v", err)
	}

	err = repo.AwardBadge(user.ID, badge.ID)
	if err != nil {
		t.Fatalf("Second AwardBadge() failed: %v", err)
	}

	userBadges, err := repo.GetUserBadges(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadges() failed: %v", err)
	}

	if len(userBadges) != 1 {
		t.Errorf("Expected 1 user badge entry, got %d", len(userBadges))
	}
}

func TestBadgeRepository_GetUserBadges(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)

	user := createTestUser(t, db, "charlie", models.RoleUser)
	badge1 := createTestBadge(t, repo, "Contributor", 10)
	badge2 := createTestBadge(t, repo, "Historian", 50)

	_ = repo.AwardBadge(user.ID, badge1.ID)
	time.Sleep(10 * time.Millisecond) // Ensure different timestamps
	_ = repo.AwardBadge(user.ID, badge2.ID)

	userBadges, err := repo.GetUserBadges(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadges() failed: %v", err)
	}

	if len(userBadges) != 2 {
		t.Fatalf("Expected 2 badges, got %d", len(userBadges))
	}

	// Newest award first
	if userBadges[0].Badge.NameEn != "Historian" {
		t.Errorf("Expected first badge 'Historian', got %q", userBadges[0].Badge.NameEn)
	}
}

func TestBadgeRepository_GetBadgeHoldersCount(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)

	user1 := createTestUser(t, db, "alice", models.RoleUser)
	user2 := createTestUser(t, db, "bob", models.RoleUser)
	badge := createTestBadge(t, repo, "Contributor", 10)

	count, err := repo.GetBadgeHoldersCount(badge.ID)
	if err != nil {
		t.Fatalf("GetBadgeHoldersCount() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected count 0, got %d", count)
	}

	_ = repo.AwardBadge(user1.ID, badge.ID)
	_ = repo.AwardBadge(user2.ID, badge.ID)

	count, err = repo.GetBadgeHoldersCount(badge.ID)
	if err != nil {
		t.Fatalf("GetBadgeHoldersCount() after awards failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}
