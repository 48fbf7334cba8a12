// Package service wires the application together: database connection,
// schema migration, cache tiers and the settings manager.
package service

import (
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoMLSettings/GoMLSettings/internal/cache"
	"github.com/GoMLSettings/GoMLSettings/internal/config"
	settingctl "github.com/GoMLSettings/GoMLSettings/internal/db/controller/setting"
	"github.com/GoMLSettings/GoMLSettings/internal/db/dsn"
	"github.com/GoMLSettings/GoMLSettings/internal/db/models"
	"github.com/GoMLSettings/GoMLSettings/internal/settings"
)

// ErrConfigNil is returned when the service is constructed without a config.
var ErrConfigNil = errors.New("config is nil")

// Service bundles the wired application components.
type Service struct {
	DB      *gorm.DB
	Cache   *cache.Layer
	Store   *settingctl.Controller
	Manager *settings.Manager
}

// New connects to the configured database, migrates the schema, builds
// the cache layer and the settings manager, and seeds default settings
// into an empty database.
func New(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	var dialector gorm.Dialector
	switch cfg.DB.Engine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	default:
		dialector = sqlite.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Setting{},
		&models.SettingTranslation{},
	); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to migrate database")
	}

	layer := cache.NewLayer(
		sharedBackend(cfg),
		cfg.Cache.Prefix,
		time.Duration(cfg.Cache.TTL)*time.Second,
		cfg.Cache.Enabled,
	)

	store := settingctl.New(db, layer)

	seed(cfg, store)

	return &Service{
		DB:      db,
		Cache:   layer,
		Store:   store,
		Manager: settings.NewManager(store, layer, cfg.DefaultLocale),
	}, nil
}

// sharedBackend connects the shared cache tier. An unreachable tier is
// not fatal, the cache fails open and runs process-local.
func sharedBackend(cfg *config.Config) cache.Backend {
	if cfg.Cache.Redis.Addr == "" {
		return nil
	}

	backend, err := cache.NewRedis(cache.RedisOptions{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Cache.Redis.Addr).
			Msg("shared cache tier unreachable, continuing process-local only")

		return nil
	}

	return backend
}

// Close releases the cache backend and the database connection.
func (s *Service) Close() error {
	if err := s.Cache.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close cache backend")
	}

	sqlDB, err := s.DB.DB()
	if err != nil {
		return err //nolint: wrapcheck
	}

	return sqlDB.Close() //nolint: wrapcheck
}
