package services

import "strings"

// Languages supported by invoices and customer email.
const (
	LanguageCroatian  = "hr"
	LanguageGerman    = "de"
	LanguageEnglish   = "en"
	LanguageItalian   = "it"
	LanguageSlovenian = "sl"
)

// DefaultLanguage is used whenever no supported language was requested.
const DefaultLanguage = LanguageCroatian

var supportedLanguages = map[string]bool{
	LanguageCroatian:  true,
	LanguageGerman:    true,
	LanguageEnglish:   true,
	LanguageItalian:   true,
	LanguageSlovenian: true,
}

// normalizeLanguage lowercases the tag, strips any region subtag
// ("de-AT" becomes "de") and falls back to the default for anything
// unsupported.
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if supportedLanguages[lang] {
		return lang
	}
	return DefaultLanguage
}
