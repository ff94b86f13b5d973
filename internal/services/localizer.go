package services

import (
	"strings"

	"github.com/SAP-F-2025/progress-service/internal/models"
)

// Localizer picks one translation out of a localized field.
type Localizer interface {
	Localize(text models.LocalizedText, language, baseLanguage string) string
}

// FallbackLocalizer tries the requested language, its primary subtag, the
// base language, the configured default and finally the lexicographically
// first available translation.
type FallbackLocalizer struct {
	DefaultLanguage string
}

func NewFallbackLocalizer(defaultLanguage string) *FallbackLocalizer {
	return &FallbackLocalizer{DefaultLanguage: defaultLanguage}
}

func (l *FallbackLocalizer) Localize(text models.LocalizedText, language, baseLanguage string) string {
	if len(text) == 0 {
		return ""
	}

	for _, lang := range l.candidates(language, baseLanguage) {
		if value := lookup(text, lang); value != "" {
			return value
		}
	}

	if langs := text.Languages(); len(langs) > 0 {
		return text[langs[0]]
	}
	return ""
}

func (l *FallbackLocalizer) candidates(language, baseLanguage string) []string {
	var out []string
	if language != "" {
		out = append(out, language)
		if primary, _, found := strings.Cut(language, "-"); found {
			out = append(out, primary)
		}
	}
	return append(out, baseLanguage, l.DefaultLanguage)
}

// lookup matches language tags case-insensitively, preferring an exact key.
func lookup(text models.LocalizedText, language string) string {
	if language == "" {
		return ""
	}
	if value, ok := text[language]; ok && value != "" {
		return value
	}
	for _, lang := range text.Languages() {
		if strings.EqualFold(lang, language) && text[lang] != "" {
			return text[lang]
		}
	}
	return ""
}
