package seeder

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoMLSettings/GoMLSettings/internal/db/controller/setting"
	"github.com/GoMLSettings/GoMLSettings/internal/db/models"
)

func setupTestStore(t *testing.T) *setting.Controller {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Setting{}, &models.SettingTranslation{}))

	return setting.New(db, nil)
}

func strPtr(s string) *string { return &s }

func seedTestStore(t *testing.T, store *setting.Controller) {
	t.Helper()

	ctx := context.Background()

	_, err := store.Create(ctx, &models.Setting{
		Key:          "site.title",
		Group:        "site",
		Type:         "text",
		Name:         "Site Title",
		DefaultValue: strPtr("My Site"),
		Value:        strPtr("Production Site"),
		Order:        1,
	})
	require.NoError(t, err)

	_, err = store.Create(ctx, &models.Setting{
		Key:            "site.tagline",
		Group:          "site",
		Type:           "text",
		Name:           "Tagline",
		IsTranslatable: true,
		Order:          2,
	})
	require.NoError(t, err)

	require.NoError(t, store.UpsertTranslation(ctx, "site.tagline", "en", strPtr("Welcome")))
	require.NoError(t, store.UpsertTranslation(ctx, "site.tagline", "de", strPtr("Willkommen")))
}

func TestExport(t *testing.T) {
	store := setupTestStore(t)
	seedTestStore(t, store)

	gen := New(store, t.TempDir())

	doc, err := gen.Export(context.Background(), "SettingsSeeder")
	require.NoError(t, err)

	assert.Equal(t, "SettingsSeeder", doc.Name)
	assert.False(t, doc.GeneratedAt.IsZero())
	require.Len(t, doc.Settings, 2)
	require.Len(t, doc.Translations, 2)

	title := doc.Settings[0]
	assert.Equal(t, "site.title", title.Key)
	require.NotNil(t, title.Value)
	assert.Equal(t, "Production Site", *title.Value)

	locales := []string{doc.Translations[0].Locale, doc.Translations[1].Locale}
	assert.ElementsMatch(t, []string{"en", "de"}, locales)
}

func TestExportSkipsTranslationsOfNonTranslatable(t *testing.T) {
	store := setupTestStore(t)
	seedTestStore(t, store)
	ctx := context.Background()

	// Flip the tagline to non-translatable; its stored translations must
	// not leak into the export.
	translatable := false
	_, err := store.Update(ctx, "site.tagline", setting.Patch{IsTranslatable: &translatable})
	require.NoError(t, err)

	gen := New(store, t.TempDir())

	doc, err := gen.Export(ctx, "SettingsSeeder")
	require.NoError(t, err)

	assert.Len(t, doc.Settings, 2)
	assert.Empty(t, doc.Translations)
}

func TestGenerateWritesTimestampedFile(t *testing.T) {
	store := setupTestStore(t)
	seedTestStore(t, store)

	dir := t.TempDir()
	gen := New(store, filepath.Join(dir, "seeders"))

	path, err := gen.Generate(context.Background(), "")
	require.NoError(t, err)

	base := filepath.Base(path)
	assert.True(t, strings.HasSuffix(base, "_"+DefaultName+".json"), "unexpected filename %q", base)

	payload, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Equal(t, DefaultName, doc.Name)
	assert.Len(t, doc.Settings, 2)
}

func TestApplyReplacesExistingSettings(t *testing.T) {
	store := setupTestStore(t)
	seedTestStore(t, store)
	ctx := context.Background()

	gen := New(store, t.TempDir())

	doc := &Document{
		Name: "SettingsSeeder",
		Settings: []SettingSeed{
			{Key: "mail.from", Group: "mail", Type: "text", Name: "From Address", Value: strPtr("ops@example.com")},
		},
	}

	require.NoError(t, gen.Apply(ctx, doc))

	// The previous contents are gone; only the seeded setting remains.
	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "mail.from", all[0].Key)
}

func TestApplyGuardsTranslationsByTranslatability(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	gen := New(store, t.TempDir())

	doc := &Document{
		Name: "SettingsSeeder",
		Settings: []SettingSeed{
			{Key: "site.tagline", Group: "site", Type: "text", Name: "Tagline", IsTranslatable: true},
			{Key: "site.title", Group: "site", Type: "text", Name: "Site Title"},
		},
		Translations: []TranslationSeed{
			{Key: "site.tagline", Locale: "de", Value: strPtr("Willkommen")},
			// Targets a non-translatable setting: silently skipped.
			{Key: "site.title", Locale: "de", Value: strPtr("Titel")},
			// Targets a key the document never recreates: silently skipped.
			{Key: "ghost.key", Locale: "de", Value: strPtr("nope")},
		},
	}

	require.NoError(t, gen.Apply(ctx, doc))

	tagline, err := store.GetByKey(ctx, "site.tagline")
	require.NoError(t, err)
	require.Len(t, tagline.Translations, 1)
	assert.Equal(t, "de", tagline.Translations[0].Locale)

	title, err := store.GetByKey(ctx, "site.title")
	require.NoError(t, err)
	assert.Empty(t, title.Translations)
}

func TestApplyRejectsEmptyDocument(t *testing.T) {
	store := setupTestStore(t)

	gen := New(store, t.TempDir())

	err := gen.Apply(context.Background(), &Document{Name: "SettingsSeeder"})
	require.ErrorIs(t, err, ErrEmptyDocument)
}

func TestApplyRejectsInvalidDocument(t *testing.T) {
	store := setupTestStore(t)
	seedTestStore(t, store)
	ctx := context.Background()

	gen := New(store, t.TempDir())

	doc := &Document{
		Name: "SettingsSeeder",
		Settings: []SettingSeed{
			{Key: "", Type: "text"}, // missing key fails validation
		},
	}

	err := gen.Apply(ctx, doc)
	require.Error(t, err)

	// The replay never started, so the existing settings survive.
	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGenerateApplyRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	seedTestStore(t, store)
	ctx := context.Background()

	gen := New(store, t.TempDir())

	path, err := gen.Generate(ctx, "RoundTrip")
	require.NoError(t, err)

	// Mutate the store after the export, then replay the file.
	require.NoError(t, store.SetValue(ctx, "site.title", strPtr("Mutated")))
	_, err = store.Create(ctx, &models.Setting{Key: "extra.key", Type: "text"})
	require.NoError(t, err)

	require.NoError(t, gen.ApplyFile(ctx, path))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	title, err := store.GetByKey(ctx, "site.title")
	require.NoError(t, err)
	require.NotNil(t, title.Value)
	assert.Equal(t, "Production Site", *title.Value)

	tagline, err := store.GetByKey(ctx, "site.tagline")
	require.NoError(t, err)
	assert.Len(t, tagline.Translations, 2)
}
