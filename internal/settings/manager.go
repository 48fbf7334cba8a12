package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/GoMLSettings/GoMLSettings/internal/cache"
	"github.com/GoMLSettings/GoMLSettings/internal/db/controller/setting"
	"github.com/GoMLSettings/GoMLSettings/internal/db/models"
)

// Manager is the public settings facade. It combines the store, the
// two-tier cache and the coercion rules into the get/set/has/forget/all
// operations. The read path never returns an error: storage or cache
// trouble degrades to the caller-supplied default.
type Manager struct {
	store         *setting.Controller
	cache         *cache.Layer
	defaultLocale string
}

// NewManager creates a settings Manager. defaultLocale is used when a
// translatable setting is read without an explicit locale.
func NewManager(store *setting.Controller, cacheLayer *cache.Layer, defaultLocale string) *Manager {
	if defaultLocale == "" {
		defaultLocale = "en"
	}

	return &Manager{
		store:         store,
		cache:         cacheLayer,
		defaultLocale: defaultLocale,
	}
}

// Get resolves a setting value. When the key does not exist the
// caller-supplied default is returned unchanged, without coercion. For
// translatable settings the given locale (or the configured default
// locale) selects the translation, falling back to the definition's
// default value. The resolved text always passes through Decode with the
// setting's declared type.
func (m *Manager) Get(ctx context.Context, key string, def any, locale string) any {
	if key == "" {
		return def
	}

	s, ok := m.lookup(ctx, key)
	if !ok {
		return def
	}

	raw := m.resolveRaw(s, locale)
	if raw == nil {
		return def
	}

	return Decode(raw, Type(s.Type))
}

// lookup resolves the setting definition through the cache tiers, falling
// back to the store on a miss and populating both tiers afterwards.
func (m *Manager) lookup(ctx context.Context, key string) (*models.Setting, bool) {
	if payload, hit := m.cache.Get(ctx, key); hit {
		var s models.Setting
		if err := json.Unmarshal(payload, &s); err == nil {
			return &s, true
		}

		// An undecodable payload is treated as a miss and evicted.
		m.cache.Invalidate(ctx, key)
	}

	s, err := m.store.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, setting.ErrSettingNotFound) {
			log.Error().Err(err).Str("key", key).Msg("settings lookup failed")
		}

		return nil, false
	}

	if payload, err := json.Marshal(s); err == nil {
		m.cache.Put(ctx, key, payload)
	}

	return s, true
}

// resolveRaw picks the stored text for a definition: translation value or
// default for translatable settings, value or default otherwise. The
// locale is ignored for non-translatable settings, and orphaned
// translation rows never affect their resolution.
func (m *Manager) resolveRaw(s *models.Setting, locale string) *string {
	if s.IsTranslatable {
		if locale == "" {
			locale = m.defaultLocale
		}

		if tr := s.Translation(locale); tr != nil && tr.Value != nil {
			return tr.Value
		}

		return s.DefaultValue
	}

	if s.Value != nil {
		return s.Value
	}

	return s.DefaultValue
}

// Set writes a setting value. It soft-fails with false when the key does
// not exist, callers may probe speculatively. The value is encoded with
// the setting's declared type; translatable settings with a locale get a
// translation row, everything else writes the value column. The store
// invalidates the cache before Set returns, so a Get in the same process
// observes the new value.
func (m *Manager) Set(ctx context.Context, key string, value any, locale string) bool {
	if key == "" {
		return false
	}

	s, err := m.store.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, setting.ErrSettingNotFound) {
			log.Error().Err(err).Str("key", key).Msg("settings write lookup failed")
		}

		return false
	}

	raw := Encode(value, Type(s.Type))

	if s.IsTranslatable && locale != "" {
		err = m.store.UpsertTranslation(ctx, key, locale, raw)
	} else {
		err = m.store.SetValue(ctx, key, raw)
	}

	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("settings write failed")
		return false
	}

	return true
}

// Has reports whether a setting exists. It always consults the store so
// a Has right after a Create is never answered from a stale cache.
func (m *Manager) Has(ctx context.Context, key string) bool {
	exists, err := m.store.Exists(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("settings existence check failed")
		return false
	}

	return exists
}

// Forget evicts the cache entry and deletes the setting with its
// translations. It reports whether a setting was actually removed.
func (m *Manager) Forget(ctx context.Context, key string) bool {
	m.cache.Invalidate(ctx, key)

	deleted, err := m.store.Delete(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("settings delete failed")
		return false
	}

	return deleted
}

// All resolves every setting (optionally restricted to one group) into a
// key to value map. Each value follows the same resolution rules as Get.
// Bulk reads always hit the store directly and are never cached per key;
// freshness wins over hit rate for scans.
func (m *Manager) All(ctx context.Context, group, locale string) map[string]any {
	var (
		list []models.Setting
		err  error
	)

	if group == "" {
		list, err = m.store.GetAll(ctx)
	} else {
		list, err = m.store.GetByGroup(ctx, group)
	}

	if err != nil {
		log.Error().Err(err).Str("group", group).Msg("settings bulk read failed")
		return map[string]any{}
	}

	result := make(map[string]any, len(list))
	for i := range list {
		s := &list[i]

		var value any
		if raw := m.resolveRaw(s, locale); raw != nil {
			value = Decode(raw, Type(s.Type))
		}

		result[s.Key] = value
	}

	return result
}

// Group is an alias for All restricted to one group.
func (m *Manager) Group(ctx context.Context, group, locale string) map[string]any {
	return m.All(ctx, group, locale)
}

// Create passes through to the store. Nothing was cached for a new key,
// so no cache interaction is needed.
func (m *Manager) Create(ctx context.Context, s *models.Setting) (*models.Setting, error) {
	return m.store.Create(ctx, s)
}

// Update applies a partial update to a setting. It soft-fails with false
// when the key does not exist. The store invalidates the cache entry.
func (m *Manager) Update(ctx context.Context, key string, patch setting.Patch) (*models.Setting, bool) {
	s, err := m.store.Update(ctx, key, patch)
	if err != nil {
		if !errors.Is(err, setting.ErrSettingNotFound) {
			log.Error().Err(err).Str("key", key).Msg("settings update failed")
		}

		return nil, false
	}

	return s, true
}

// GroupedSettings returns all settings nested by group and tab in display
// order, the data a settings page collaborator renders from.
func (m *Manager) GroupedSettings(ctx context.Context) (map[string]map[string][]models.Setting, error) {
	return m.store.GetGrouped(ctx)
}

// ClearCache flushes both cache tiers entirely.
func (m *Manager) ClearCache(ctx context.Context) {
	m.cache.Flush(ctx)
}

// DisableCache bypasses both cache tiers for this process until
// EnableCache is called. The toggle does not persist across restarts.
func (m *Manager) DisableCache() {
	m.cache.Disable()
}

// EnableCache re-enables the cache tiers for this process.
func (m *Manager) EnableCache() {
	m.cache.Enable()
}
