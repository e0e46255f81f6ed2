// Package ingestion implements the one-time bulk loader for scripture verses
// from the line-oriented bilingual source format.
package ingestion

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedLine is returned for source lines that fail the verse pattern
// or field validation. Malformed lines are skipped, never fatal.
var ErrMalformedLine = errors.New("line does not match the verse format")

// Verse line layout: Arabic text, the ترجمہ: marker, the Urdu translation,
// an optional <br> marker, then س <surah> آ <ayah> with 1-3 digit numbers.
var verseLinePattern = regexp.MustCompile(`^(.+?)\s*ترجمہ:\s*(.+?)\s*(?:<br\s*/?>)?\s*س\s*([0-9]{1,3})\s*آ\s*([0-9]{1,3})$`)

// ParsedVerse is one successfully parsed source line.
type ParsedVerse struct {
	Surah      int
	Number     int
	ArabicText string
	UrduText   string
}

// ParseLine parses a single source line into a verse.
func ParseLine(line string) (*ParsedVerse, error) {
	m := verseLinePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil, fmt.Errorf("missing format markers: %w", ErrMalformedLine)
	}

	arabic := strings.TrimSpace(m[1])
	urdu := strings.TrimSpace(m[2])
	if arabic == "" || urdu == "" {
		return nil, fmt.Errorf("empty text field: %w", ErrMalformedLine)
	}

	surah, err := strconv.Atoi(m[3])
	if err != nil || surah <= 0 {
		return nil, fmt.Errorf("invalid surah number %q: %w", m[3], ErrMalformedLine)
	}
	number, err := strconv.Atoi(m[4])
	if err != nil || number <= 0 {
		return nil, fmt.Errorf("invalid ayah number %q: %w", m[4], ErrMalformedLine)
	}

	return &ParsedVerse{
		Surah:      surah,
		Number:     number,
		ArabicText: arabic,
		UrduText:   urdu,
	}, nil
}
