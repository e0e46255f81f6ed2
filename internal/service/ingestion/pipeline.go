package ingestion

import (
	"bufio"
	"context"
	"fmt"
	"os"

	prommetrics "github.com/hfarooqi/tarikh-portal/internal/metrics"
	"github.com/hfarooqi/tarikh-portal/internal/models"
	"github.com/hfarooqi/tarikh-portal/internal/repository"
	"github.com/hfarooqi/tarikh-portal/pkg/logger"
)

// seedName is the persisted marker for the verse load. Its unique insert
// inside the load transaction is what keeps two concurrent loaders from both
// committing.
const seedName = "quran_verses"

// Pipeline performs the one-time verse bulk load.
type Pipeline struct {
	db  *repository.DB
	log *logger.Logger
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(db *repository.DB, log *logger.Logger) *Pipeline {
	return &Pipeline{db: db, log: log}
}

// Result reports the outcome of one ingestion run.
type Result struct {
	Loaded        int
	Skipped       int
	AlreadyLoaded bool
	SourceMissing bool
	FormatWarning bool
}

// Run parses the source file and loads all valid verses in one transaction.
// A populated verse table or an applied seed marker makes the run a no-op.
// Malformed lines are skipped and logged; a failed insert (for example a
// duplicate surah/ayah key) rolls back the entire batch.
func (p *Pipeline) Run(ctx context.Context, sourcePath string) (*Result, error) {
	_ = ctx
	res := &Result{}

	count, err := repository.NewVerseRepository(p.db).Count()
	if err != nil {
		return nil, err
	}
	applied, err := repository.NewSeedRepository(p.db).IsApplied(seedName)
	if err != nil {
		return nil, err
	}
	if count > 0 || applied {
		res.AlreadyLoaded = true
		p.log.Debug().Int64("verses", count).Msg("Verse table already populated, skipping ingestion")
		return res, nil
	}

	file, err := os.Open(sourcePath)
	if os.IsNotExist(err) {
		res.SourceMissing = true
		p.log.Warn().Str("path", sourcePath).Msg("Verse source file not found, nothing ingested")
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open verse source: %w", err)
	}
	defer file.Close()

	verses, skipped, err := p.parseAll(file)
	if err != nil {
		return nil, err
	}
	res.Skipped = skipped

	if len(verses) == 0 {
		res.FormatWarning = true
		p.log.Warn().
			Str("path", sourcePath).
			Int("skipped", skipped).
			Msg("No valid verse lines found in source, check the file format")
		return res, nil
	}

	err = p.db.Transaction(func(tx *repository.DB) error {
		if err := repository.NewSeedRepository(tx).MarkApplied(seedName); err != nil {
			return err
		}
		return repository.NewVerseRepository(tx).BulkInsert(verses)
	})
	if err != nil {
		return nil, fmt.Errorf("verse ingestion rolled back: %w", err)
	}

	res.Loaded = len(verses)
	prommetrics.RecordVersesIngested(res.Loaded)
	p.log.Info().
		Int("loaded", res.Loaded).
		Int("skipped", res.Skipped).
		Msg("Verse ingestion complete")

	return res, nil
}

// parseAll reads every source line, collecting valid verses and counting
// skipped ones.
func (p *Pipeline) parseAll(file *os.File) ([]models.Ayah, int, error) {
	var (
		verses  []models.Ayah
		skipped int
		lineNo  int
	)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		parsed, err := ParseLine(line)
		if err != nil {
			skipped++
			prommetrics.RecordIngestionLineSkipped()
			p.log.Warn().
				Int("line", lineNo).
				Err(err).
				Msg("Skipping malformed verse line")
			continue
		}

		verses = append(verses, models.Ayah{
			Surah:      parsed.Surah,
			Number:     parsed.Number,
			ArabicText: parsed.ArabicText,
			UrduText:   parsed.UrduText,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read verse source: %w", err)
	}

	return verses, skipped, nil
}
