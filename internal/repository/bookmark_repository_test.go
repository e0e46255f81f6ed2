package repository

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hfarooqi/tarikh-portal/internal/models"
)

// setupBookmarkTestDB creates an in-memory SQLite database for testing.
func setupBookmarkTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.User{}, &models.Bookmark{})
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

func TestBookmarkRepository_CreateAndList(t *testing.T) {
	db := setupBookmarkTestDB(t)
	repo := NewBookmarkRepository(db)
	user := createTestUser(t, db, "alice", models.RoleUser)

	err := repo.Create(&models.Bookmark{UserID: user.ID, ItemKind: models.KindEvent, ItemID: 5})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	err = repo.Create(&models.Bookmark{UserID: user.ID, ItemKind: models.KindHadith, ItemID: 5})
	if err != nil {
		t.Fatalf("Create() for second kind failed: %v", err)
	}

	bookmarks, err := repo.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser() failed: %v", err)
	}

	if len(bookmarks) != 2 {
		t.Errorf("Expected 2 bookmarks, got %d", len(bookmarks))
	}
}

func TestBookmarkRepository_Create_Duplicate(t *testing.T) {
	db := setupBookmarkTestDB(t)
	repo := NewBookmarkRepository(db)
	user := createTestUser(t, db, "bob", models.RoleUser)

	err := repo.Create(&models.Bookmark{UserID: user.ID, ItemKind: models.KindEvent, ItemID: 7})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	err = repo.Create(&models.Bookmark{UserID: user.ID, ItemKind: models.KindEvent, ItemID: 7})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate bookmark, got %v", err)
	}
}

func TestBookmarkRepository_Delete(t *testing.T) {
	db := setupBookmarkTestDB(t)
	repo := NewBookmarkRepository(db)
	user := createTestUser(t, db, "charlie", models.RoleUser)

	err := repo.Create(&models.Bookmark{UserID: user.ID, ItemKind: models.KindEvent, ItemID: 3})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := repo.Delete(user.ID, models.KindEvent, 3); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	bookmarks, err := repo.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser() failed: %v", err)
	}
	if len(bookmarks) != 0 {
		t.Errorf("Expected 0 bookmarks, got %d", len(bookmarks))
	}

	// Deleting again reports not found
	err = repo.Delete(user.ID, models.KindEvent, 3)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
