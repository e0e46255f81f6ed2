// Package i18n resolves bilingual field pairs to the active display language.
package i18n

// Supported display languages.
const (
	LangEnglish = "en"
	LangUrdu    = "ur"
)

// Resolve picks the display variant of a bilingual field. The Urdu value wins
// only when Urdu is active and the value is populated; everything else falls
// back to English, which may itself be empty.
func Resolve(en, ur, activeLanguage string) string {
	if activeLanguage == LangUrdu && ur != "" {
		return ur
	}
	return en
}
