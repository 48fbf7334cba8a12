// Package setting provides CRUD operations for managing application settings
// and their per-locale translations.
package setting

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoMLSettings/GoMLSettings/internal/db/models"
)

const (
	keyQueryPattern       = "key = ?"
	settingIDQueryPattern = "setting_id = ?"
	localeQueryPattern    = "locale = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to create/update a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrLocaleEmpty is returned when a translation operation is called without a locale.
	ErrLocaleEmpty = errors.New("locale cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Invalidator evicts a cached settings entry. Writes call it synchronously
// before they return, so a read after a write never sees a stale value
// within the same process.
type Invalidator interface {
	Invalidate(ctx context.Context, key string)
}

// Patch carries a partial update for an existing setting. Nil fields are
// left untouched. The key is immutable after creation and therefore not
// part of the patch.
type Patch struct {
	Group          *string
	Tab            *string
	Type           *string
	Name           *string
	Description    *string
	Options        map[string]string
	Rules          []string
	DefaultValue   *string
	Value          *string
	IsTranslatable *bool
	Order          *int
}

// Controller is the persistent settings repository. All successful writes
// emit an invalidation for the affected key through the injected
// Invalidator.
type Controller struct {
	db          *gorm.DB
	invalidator Invalidator
}

// New creates a setting Controller. The invalidator may be nil when no
// cache is attached.
func New(db *gorm.DB, invalidator Invalidator) *Controller {
	return &Controller{db: db, invalidator: invalidator}
}

func (c *Controller) invalidate(ctx context.Context, key string) {
	if c.invalidator != nil {
		c.invalidator.Invalidate(ctx, key)
	}
}

// ordered applies the stable display ordering: order ascending, key as the
// deterministic tie-break.
func ordered(db *gorm.DB) *gorm.DB {
	return db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}})
}

// GetByKey retrieves a setting with its translations preloaded.
func (c *Controller) GetByKey(ctx context.Context, key string) (*models.Setting, error) {
	if c == nil || c.db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := c.db.WithContext(ctx).Preload("Translations").Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// Exists reports whether a setting with the given key exists. It always
// consults the database, never a cache.
func (c *Controller) Exists(ctx context.Context, key string) (bool, error) {
	if c == nil || c.db == nil {
		return false, ErrDBNil
	}
	if key == "" {
		return false, ErrSettingKeyEmpty
	}

	var count int64
	result := c.db.WithContext(ctx).Model(&models.Setting{}).Where(keyQueryPattern, key).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// GetByGroup retrieves all settings of one group in display order.
func (c *Controller) GetByGroup(ctx context.Context, group string) ([]models.Setting, error) {
	if c == nil || c.db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	groupEq := clause.Eq{Column: clause.Column{Name: "group"}, Value: group}
	result := ordered(c.db.WithContext(ctx).Preload("Translations").Where(groupEq)).Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetAll retrieves all settings in display order with translations preloaded.
func (c *Controller) GetAll(ctx context.Context) ([]models.Setting, error) {
	if c == nil || c.db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := ordered(c.db.WithContext(ctx).Preload("Translations")).Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetGrouped returns all settings nested by group and tab, each slice in
// display order. Settings without a tab end up under the empty tab key.
func (c *Controller) GetGrouped(ctx context.Context) (map[string]map[string][]models.Setting, error) {
	settings, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]map[string][]models.Setting)
	for _, setting := range settings {
		tab := ""
		if setting.Tab != nil {
			tab = *setting.Tab
		}

		if grouped[setting.Group] == nil {
			grouped[setting.Group] = make(map[string][]models.Setting)
		}

		grouped[setting.Group][tab] = append(grouped[setting.Group][tab], setting)
	}

	return grouped, nil
}

// Create creates a new setting. The key must not exist yet.
func (c *Controller) Create(ctx context.Context, setting *models.Setting) (*models.Setting, error) {
	if c == nil || c.db == nil {
		return nil, ErrDBNil
	}
	if setting == nil || setting.Key == "" {
		return nil, ErrSettingKeyEmpty
	}

	// Check if setting already exists
	var existing models.Setting
	result := c.db.WithContext(ctx).Where(keyQueryPattern, setting.Key).First(&existing)
	if result.Error == nil {
		return nil, ErrSettingAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	if setting.Group == "" {
		setting.Group = "general"
	}
	if setting.Type == "" {
		setting.Type = "text"
	}

	result = c.db.WithContext(ctx).Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	c.invalidate(ctx, setting.Key)

	return setting, nil
}

// Update applies a partial update to an existing setting by key.
func (c *Controller) Update(ctx context.Context, key string, patch Patch) (*models.Setting, error) {
	if c == nil || c.db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := c.db.WithContext(ctx).Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	applyPatch(&setting, patch)

	result = c.db.WithContext(ctx).Save(&setting)
	if result.Error != nil {
		return nil, result.Error
	}

	c.invalidate(ctx, key)

	return &setting, nil
}

func applyPatch(setting *models.Setting, patch Patch) {
	if patch.Group != nil {
		setting.Group = *patch.Group
	}
	if patch.Tab != nil {
		setting.Tab = patch.Tab
	}
	if patch.Type != nil {
		setting.Type = *patch.Type
	}
	if patch.Name != nil {
		setting.Name = *patch.Name
	}
	if patch.Description != nil {
		setting.Description = patch.Description
	}
	if patch.Options != nil {
		setting.Options = patch.Options
	}
	if patch.Rules != nil {
		setting.Rules = patch.Rules
	}
	if patch.DefaultValue != nil {
		setting.DefaultValue = patch.DefaultValue
	}
	if patch.Value != nil {
		setting.Value = patch.Value
	}
	if patch.IsTranslatable != nil {
		setting.IsTranslatable = *patch.IsTranslatable
	}
	if patch.Order != nil {
		setting.Order = *patch.Order
	}
}

// SetValue overwrites the single-value column of a non-translatable
// setting with an already encoded raw value.
func (c *Controller) SetValue(ctx context.Context, key string, raw *string) error {
	if c == nil || c.db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	result := c.db.WithContext(ctx).Model(&models.Setting{}).Where(keyQueryPattern, key).Update("value", raw)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	c.invalidate(ctx, key)

	return nil
}

// Delete deletes a setting by key, cascading its translations. It reports
// whether a row was actually removed.
func (c *Controller) Delete(ctx context.Context, key string) (bool, error) {
	if c == nil || c.db == nil {
		return false, ErrDBNil
	}
	if key == "" {
		return false, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := c.db.WithContext(ctx).Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}

	// Cascade the translations explicitly so engines without enforced
	// foreign keys behave the same as those with them.
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(settingIDQueryPattern, setting.ID).Delete(&models.SettingTranslation{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Setting{}, setting.ID).Error
	})
	if err != nil {
		return false, err
	}

	c.invalidate(ctx, key)

	return true, nil
}

// GetTranslation retrieves the translation row for a (key, locale) pair.
func (c *Controller) GetTranslation(ctx context.Context, key, locale string) (*models.SettingTranslation, error) {
	if c == nil || c.db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}
	if locale == "" {
		return nil, ErrLocaleEmpty
	}

	setting, err := c.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	var translation models.SettingTranslation
	result := c.db.WithContext(ctx).
		Where(settingIDQueryPattern, setting.ID).
		Where(localeQueryPattern, locale).
		First(&translation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &translation, nil
}

// UpsertTranslation creates or updates the (key, locale) translation row.
func (c *Controller) UpsertTranslation(ctx context.Context, key, locale string, raw *string) error {
	if c == nil || c.db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}
	if locale == "" {
		return ErrLocaleEmpty
	}

	var setting models.Setting
	result := c.db.WithContext(ctx).Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrSettingNotFound
		}
		return result.Error
	}

	var translation models.SettingTranslation
	result = c.db.WithContext(ctx).
		Where(settingIDQueryPattern, setting.ID).
		Where(localeQueryPattern, locale).
		First(&translation)

	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		translation = models.SettingTranslation{
			SettingID: setting.ID,
			Locale:    locale,
			Value:     raw,
		}
		result = c.db.WithContext(ctx).Create(&translation)
	case result.Error != nil:
		return result.Error
	default:
		translation.Value = raw
		result = c.db.WithContext(ctx).Save(&translation)
	}

	if result.Error != nil {
		return result.Error
	}

	c.invalidate(ctx, key)

	return nil
}

// DeleteAll removes every setting and translation. Used by the seeder
// replay before recreating the exported state.
func (c *Controller) DeleteAll(ctx context.Context) error {
	if c == nil || c.db == nil {
		return ErrDBNil
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SettingTranslation{}).Error; err != nil {
			return err
		}

		return tx.Where("1 = 1").Delete(&models.Setting{}).Error
	})
}

// DB exposes the underlying connection for transactional composition.
func (c *Controller) DB() *gorm.DB {
	return c.db
}
