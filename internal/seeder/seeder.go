// Package seeder exports the current settings into a replayable seed file
// and replays such files back into the store. The artifact is a JSON
// document holding every setting with its literal field values plus the
// translations of translatable settings.
package seeder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/GoMLSettings/GoMLSettings/internal/db/controller/setting"
	"github.com/GoMLSettings/GoMLSettings/internal/db/models"
)

// DefaultName is the seed name used when the caller does not supply one.
const DefaultName = "SettingsSeeder"

const (
	timestampLayout = "2006_01_02_150405"
	seedDirPerm     = 0o750
	seedFilePerm    = 0o640
)

// ErrEmptyDocument is returned when a seed file contains no settings at all.
var ErrEmptyDocument = errors.New("seed document contains no settings")

// SettingSeed is the literal snapshot of one setting definition.
type SettingSeed struct {
	Key            string            `json:"key"   validate:"required"`
	Group          string            `json:"group"`
	Tab            *string           `json:"tab,omitempty"`
	Type           string            `json:"type"  validate:"required"`
	Name           string            `json:"name"`
	Description    *string           `json:"description,omitempty"`
	Options        map[string]string `json:"options,omitempty"`
	Rules          []string          `json:"rules,omitempty"`
	DefaultValue   *string           `json:"default_value,omitempty"`
	Value          *string           `json:"value,omitempty"`
	IsTranslatable bool              `json:"is_translatable"`
	Order          int               `json:"order"`
}

// TranslationSeed is the literal snapshot of one translation row,
// referenced by setting key rather than row id so the replay can look up
// the freshly recreated setting.
type TranslationSeed struct {
	Key    string  `json:"key"    validate:"required"`
	Locale string  `json:"locale" validate:"required"`
	Value  *string `json:"value,omitempty"`
}

// Document is the replayable seed artifact.
type Document struct {
	Name         string            `json:"name" validate:"required"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Settings     []SettingSeed     `json:"settings"     validate:"dive"`
	Translations []TranslationSeed `json:"translations" validate:"dive"`
}

// Generator exports and replays settings seed files.
type Generator struct {
	store    *setting.Controller
	path     string
	validate *validator.Validate
}

// New creates a Generator writing into (and reading from) the given
// directory.
func New(store *setting.Controller, path string) *Generator {
	return &Generator{
		store:    store,
		path:     path,
		validate: validator.New(),
	}
}

// Generate writes the current settings into a timestamped seed file and
// returns its path. An empty name falls back to DefaultName.
func (g *Generator) Generate(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = DefaultName
	}

	doc, err := g.Export(ctx, name)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(g.path, seedDirPerm); err != nil {
		return "", pkgerrors.Wrap(err, "failed to create seed directory")
	}

	filename := fmt.Sprintf("%s_%s.json", doc.GeneratedAt.Format(timestampLayout), name)
	path := filepath.Join(g.path, filename)

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to serialize seed document")
	}

	if err = os.WriteFile(path, payload, seedFilePerm); err != nil {
		return "", pkgerrors.Wrap(err, "failed to write seed file")
	}

	return path, nil
}

// Export builds the seed document from the current store contents.
// Translations are exported only for settings that are translatable at
// export time.
func (g *Generator) Export(ctx context.Context, name string) (*Document, error) {
	settings, err := g.store.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read settings for export")
	}

	doc := &Document{
		Name:        name,
		GeneratedAt: time.Now().UTC(),
	}

	for i := range settings {
		s := &settings[i]

		doc.Settings = append(doc.Settings, SettingSeed{
			Key:            s.Key,
			Group:          s.Group,
			Tab:            s.Tab,
			Type:           s.Type,
			Name:           s.Name,
			Description:    s.Description,
			Options:        s.Options,
			Rules:          s.Rules,
			DefaultValue:   s.DefaultValue,
			Value:          s.Value,
			IsTranslatable: s.IsTranslatable,
			Order:          s.Order,
		})

		if !s.IsTranslatable {
			continue
		}

		for j := range s.Translations {
			tr := &s.Translations[j]

			doc.Translations = append(doc.Translations, TranslationSeed{
				Key:    s.Key,
				Locale: tr.Locale,
				Value:  tr.Value,
			})
		}
	}

	return doc, nil
}

// ApplyFile reads a seed file and replays it.
func (g *Generator) ApplyFile(ctx context.Context, path string) error {
	payload, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read seed file")
	}

	var doc Document
	if err = json.Unmarshal(payload, &doc); err != nil {
		return pkgerrors.Wrap(err, "failed to parse seed file")
	}

	return g.Apply(ctx, &doc)
}

// Apply replays a seed document in one transaction: delete every existing
// setting, recreate each exported setting from its literal values, then
// attach each translation, but only when the recreated setting is still
// translatable at replay time. That guard keeps stale translatable data
// from landing on a definition whose type changed since the export.
func (g *Generator) Apply(ctx context.Context, doc *Document) error {
	if len(doc.Settings) == 0 {
		return ErrEmptyDocument
	}

	if err := g.validate.Struct(doc); err != nil {
		return pkgerrors.Wrap(err, "seed document failed validation")
	}

	err := g.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := setting.New(tx, nil)

		if err := txStore.DeleteAll(ctx); err != nil {
			return err
		}

		for i := range doc.Settings {
			seed := &doc.Settings[i]

			_, err := txStore.Create(ctx, &models.Setting{
				Key:            seed.Key,
				Group:          seed.Group,
				Tab:            seed.Tab,
				Type:           seed.Type,
				Name:           seed.Name,
				Description:    seed.Description,
				Options:        seed.Options,
				Rules:          seed.Rules,
				DefaultValue:   seed.DefaultValue,
				Value:          seed.Value,
				IsTranslatable: seed.IsTranslatable,
				Order:          seed.Order,
			})
			if err != nil {
				return err
			}
		}

		for i := range doc.Translations {
			seed := &doc.Translations[i]

			recreated, err := txStore.GetByKey(ctx, seed.Key)
			if err != nil {
				if errors.Is(err, setting.ErrSettingNotFound) {
					continue
				}
				return err
			}

			if !recreated.IsTranslatable {
				continue
			}

			if err = txStore.UpsertTranslation(ctx, seed.Key, seed.Locale, seed.Value); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to replay seed document")
	}

	return nil
}
