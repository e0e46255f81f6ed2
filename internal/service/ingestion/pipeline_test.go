package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hfarooqi/tarikh-portal/internal/models"
	"github.com/hfarooqi/tarikh-portal/internal/repository"
	"github.com/hfarooqi/tarikh-portal/pkg/logger"
)

func setupTestDB(t *testing.T) *repository.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if err := db.AutoMigrate(&models.Ayah{}, &models.SeedMarker{}); err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &repository.DB{DB: db}
}

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "verses.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
	return path
}

func TestPipeline_Run(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, logger.Discard())

	source := writeSourceFile(t,
		"بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ ترجمہ: اللہ کے نام سے جو بڑا مہربان نہایت رحم والا ہے<br> س 001 آ 001\n"+
			"الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ ترجمہ: سب تعریف اللہ کے لیے ہے<br> س 001 آ 002\n")

	result, err := pipeline.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if result.Loaded != 2 {
		t.Errorf("Expected 2 verses loaded, got %d", result.Loaded)
	}
	if result.Skipped != 0 {
		t.Errorf("Expected 0 skipped, got %d", result.Skipped)
	}

	verseRepo := repository.NewVerseRepository(db)
	ayah, err := verseRepo.GetByKey(1, 1)
	if err != nil {
		t.Fatalf("GetByKey() failed: %v", err)
	}
	if ayah.UrduText != "اللہ کے نام سے جو بڑا مہربان نہایت رحم والا ہے" {
		t.Errorf("Unexpected urdu text %q", ayah.UrduText)
	}

	applied, err := repository.NewSeedRepository(db).IsApplied("quran_verses")
	if err != nil {
		t.Fatalf("IsApplied() failed: %v", err)
	}
	if !applied {
		t.Error("Expected seed marker to be written with the load")
	}
}

func TestPipeline_Run_SkipsMalformedLines(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, logger.Discard())

	source := writeSourceFile(t,
		"آية ترجمہ: آیت<br> س 1 آ 1\n"+
			"garbage text with no markers\n"+
			"\n"+
			"آية ترجمہ: آیت س 1 آ 2\n")

	result, err := pipeline.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if result.Loaded != 2 {
		t.Errorf("Expected 2 verses loaded, got %d", result.Loaded)
	}
	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped line, got %d", result.Skipped)
	}
}

func TestPipeline_Run_SecondRunIsNoop(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, logger.Discard())

	source := writeSourceFile(t, "آية ترجمہ: آیت<br> س 1 آ 1\n")

	if _, err := pipeline.Run(context.Background(), source); err != nil {
		t.Fatalf("First Run() failed: %v", err)
	}

	result, err := pipeline.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("Second Run() failed: %v", err)
	}

	if !result.AlreadyLoaded {
		t.Error("Expected second run to report AlreadyLoaded")
	}
	if result.Loaded != 0 {
		t.Errorf("Expected 0 loaded on second run, got %d", result.Loaded)
	}

	count, err := repository.NewVerseRepository(db).Count()
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 verse after repeated runs, got %d", count)
	}
}

func TestPipeline_Run_SourceMissing(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, logger.Discard())

	result, err := pipeline.Run(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if !result.SourceMissing {
		t.Error("Expected SourceMissing to be reported")
	}
}

func TestPipeline_Run_NoValidLines(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, logger.Discard())

	source := writeSourceFile(t, "garbage\nmore garbage\n")

	result, err := pipeline.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if !result.FormatWarning {
		t.Error("Expected FormatWarning for a source with no valid lines")
	}
	if result.Skipped != 2 {
		t.Errorf("Expected 2 skipped lines, got %d", result.Skipped)
	}

	// No marker written; a fixed file can still be loaded later
	applied, err := repository.NewSeedRepository(db).IsApplied("quran_verses")
	if err != nil {
		t.Fatalf("IsApplied() failed: %v", err)
	}
	if applied {
		t.Error("Expected no seed marker after an empty load")
	}
}

func TestPipeline_Run_DuplicateKeyRollsBack(t *testing.T) {
	db := setupTestDB(t)
	pipeline := NewPipeline(db, logger.Discard())

	// Two lines resolving to the same (surah, ayah) key fail the batch insert
	source := writeSourceFile(t,
		"آية ترجمہ: آیت<br> س 1 آ 1\n"+
			"آية أخرى ترجمہ: دوسری آیت<br> س 1 آ 1\n")

	_, err := pipeline.Run(context.Background(), source)
	if err == nil {
		t.Fatal("Expected duplicate key to fail the run")
	}

	// Everything rolled back, marker included
	count, err := repository.NewVerseRepository(db).Count()
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 verses after rollback, got %d", count)
	}

	applied, err := repository.NewSeedRepository(db).IsApplied("quran_verses")
	if err != nil {
		t.Fatalf("IsApplied() failed: %v", err)
	}
	if applied {
		t.Error("Expected seed marker to be rolled back")
	}
}
