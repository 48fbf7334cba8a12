package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GoMLSettings/GoMLSettings/internal/config"
	settingctl "github.com/GoMLSettings/GoMLSettings/internal/db/controller/setting"
	"github.com/GoMLSettings/GoMLSettings/internal/db/models"
)

func strptr(s string) *string {
	return &s
}

func seed(cfg *config.Config, store *settingctl.Controller) {
	// Seed initial data if the settings table is empty

	existing, err := store.GetAll(context.Background())
	if err != nil || len(existing) > 0 {
		return
	}

	title := cfg.Title
	if title == "" {
		title = "My Site"
	}

	defaults := []models.Setting{
		{
			Key:          "site.title",
			Group:        "site",
			Type:         "text",
			Name:         "Site Title",
			DefaultValue: strptr(title),
			Order:        1,
		},
		{
			Key:            "site.tagline",
			Group:          "site",
			Type:           "text",
			Name:           "Site Tagline",
			IsTranslatable: true,
			Order:          2, //nolint:mnd
		},
		{
			Key:          "general.maintenance",
			Group:        "general",
			Type:         "boolean",
			Name:         "Maintenance Mode",
			DefaultValue: strptr("0"),
			Order:        1,
		},
	}

	for i := range defaults {
		if _, err := store.Create(context.Background(), &defaults[i]); err != nil {
			log.Warn().Err(err).Str("key", defaults[i].Key).Msg("failed to seed default setting")
		}
	}
}
