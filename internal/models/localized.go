package models

import (
	"sort"

	"gorm.io/datatypes"
)

// LocalizedText maps a language code ("en", "pl", ...) to a translation.
type LocalizedText map[string]string

// Languages returns the available language codes in lexicographic order.
func (t LocalizedText) Languages() []string {
	langs := make([]string, 0, len(t))
	for lang, value := range t {
		if value != "" {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// LocalizedColumn is the jsonb representation of LocalizedText.
type LocalizedColumn = datatypes.JSONType[LocalizedText]

// NewLocalizedColumn wraps translations for storage.
func NewLocalizedColumn(t LocalizedText) LocalizedColumn {
	return datatypes.NewJSONType(t)
}
