package i18n

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		en       string
		ur       string
		lang     string
		expected string
	}{
		{"urdu active with urdu value", "Battle of Badr", "غزوہ بدر", LangUrdu, "غزوہ بدر"},
		{"urdu active without urdu value", "Battle of Badr", "", LangUrdu, "Battle of Badr"},
		{"english active", "Battle of Badr", "غزوہ بدر", LangEnglish, "Battle of Badr"},
		{"unknown language falls back to english", "Battle of Badr", "غزوہ بدر", "fr", "Battle of Badr"},
		{"both empty", "", "", LangUrdu, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.en, tt.ur, tt.lang)
			if got != tt.expected {
				t.Errorf("Resolve(%q, %q, %q) = %q, want %q", tt.en, tt.ur, tt.lang, got, tt.expected)
			}
		})
	}
}
