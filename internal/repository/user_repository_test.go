package repository

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hfarooqi/tarikh-portal/internal/models"
)

// setupUserTestDB creates an in-memory SQLite database for testing.
func setupUserTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

func TestUserRepository_Create(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if user.ID == 0 {
		t.Error("Expected user ID to be set after creation")
	}
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.Create(&models.User{Username: "alice", Email: "a@example.com", Role: models.RoleUser}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	err := repo.Create(&models.User{Username: "alice", Email: "b@example.com", Role: models.RoleUser})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for duplicate username, got %v", err)
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.Create(&models.User{Username: "imam", Email: "imam@example.com", Role: models.RoleUlama}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	user, err := repo.GetByUsername("imam")
	if err != nil {
		t.Fatalf("GetByUsername() failed: %v", err)
	}

	if user.Role != models.RoleUlama {
		t.Errorf("Expected role 'ulama', got %q", user.Role)
	}

	_, err = repo.GetByUsername("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_SetPoints(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := repo.SetPoints(user.ID, 45); err != nil {
		t.Fatalf("SetPoints() failed: %v", err)
	}

	retrieved, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.Points != 45 {
		t.Errorf("Expected 45 points, got %d", retrieved.Points)
	}

	err = repo.SetPoints(999, 10)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing user, got %v", err)
	}
}

func TestUserRepository_SetRole(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := repo.SetRole(user.ID, models.RoleUlama); err != nil {
		t.Fatalf("SetRole() failed: %v", err)
	}

	retrieved, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if !retrieved.IsModerator() {
		t.Error("Expected promoted user to be a moderator")
	}
}

func TestUserRepository_List(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	users := []*models.User{
		{Username: "alice", Email: "alice@example.com", Role: models.RoleUser, Points: 30},
		{Username: "bob", Email: "bob@example.com", Role: models.RoleUser, Points: 60},
		{Username: "imam", Email: "imam@example.com", Role: models.RoleUlama, Points: 10},
	}
	for _, u := range users {
		if err := repo.Create(u); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	all, err := repo.List("")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 users, got %d", len(all))
	}

	// Ordered by points DESC
	if all[0].Username != "bob" {
		t.Errorf("Expected 'bob' first, got %q", all[0].Username)
	}

	ulama, err := repo.List(models.RoleUlama)
	if err != nil {
		t.Fatalf("List(ulama) failed: %v", err)
	}
	if len(ulama) != 1 || ulama[0].Username != "imam" {
		t.Errorf("Expected only 'imam' in ulama list, got %v", ulama)
	}
}
