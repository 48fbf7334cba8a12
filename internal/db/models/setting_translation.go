package models

import (
	"time"
)

// SettingTranslation holds the value of a translatable setting for one
// locale. Rows are unique per (setting, locale) and are deleted together
// with their parent setting.
type SettingTranslation struct {
	ID        uint64  `gorm:"primaryKey"`
	SettingID uint64  `gorm:"uniqueIndex:idx_setting_translations_setting_locale,priority:1"`
	Locale    string  `gorm:"size:16;uniqueIndex:idx_setting_translations_setting_locale,priority:2;index"`
	Value     *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
