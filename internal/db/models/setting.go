// Package models contains database model definitions.
package models

import (
	"strings"
	"time"
	"unicode"
)

// Setting represents one configuration setting definition stored in the
// database. The stored value is untyped text; the settings package decodes
// it according to Type. When IsTranslatable is set the per-locale values
// live in Translations and the Value column is ignored by resolution.
type Setting struct {
	ID             uint64  `gorm:"primaryKey"`
	Key            string  `gorm:"uniqueIndex;size:191"`
	Group          string  `gorm:"size:191;default:general;index:idx_settings_group_tab,priority:1"`
	Tab            *string `gorm:"size:191;index:idx_settings_group_tab,priority:2"`
	Type           string  `gorm:"size:32;default:text"`
	Name           string
	Description    *string           `gorm:"type:text"`
	Options        map[string]string `gorm:"serializer:json"`
	Rules          []string          `gorm:"serializer:json"`
	DefaultValue   *string           `gorm:"type:text"`
	Value          *string           `gorm:"type:text"`
	IsTranslatable bool              `gorm:"default:false"`
	Order          int               `gorm:"default:0;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Translations []SettingTranslation `gorm:"constraint:OnDelete:CASCADE"`
}

// Translation returns the preloaded translation for the given locale, or
// nil if none exists. It never touches the database.
func (s *Setting) Translation(locale string) *SettingTranslation {
	for i := range s.Translations {
		if s.Translations[i].Locale == locale {
			return &s.Translations[i]
		}
	}

	return nil
}

// FormattedName returns the display label, falling back to a title-cased
// variant of the key when no label was set.
func (s *Setting) FormattedName() string {
	if s.Name != "" {
		return s.Name
	}

	label := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(s.Key)
	runes := []rune(label)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}

	return string(runes)
}

// ValidationRules returns the validation rule tokens unmodified. The core
// never enforces them, enforcement is a form layer concern.
func (s *Setting) ValidationRules() []string {
	if s.Rules == nil {
		return []string{}
	}

	return s.Rules
}
