package config

import (
	"github.com/GoMLSettings/GoMLSettings/internal/logger"
)

// Cache holds the settings cache configuration. The shared tier is only
// used when Redis.Addr is set; without it the cache runs process-local.
type Cache struct {
	Enabled bool   // true = enable cache, false = bypass both tiers
	TTL     int    // shared tier time to live in seconds
	Prefix  string // shared tier key prefix, default "settings"
	Redis   Redis  // shared tier connection settings
}

// Redis holds the shared cache tier connection settings.
type Redis struct {
	Addr     string // host:port of the redis/valkey server
	Password string
	DB       int
}

// Seeder holds the seed export configuration.
type Seeder struct {
	Path string // directory the generated seed files are written to
}

// Group describes one settings page shown by a UI collaborator. The
// per-group differences are pure data, so pages are configured here
// instead of being generated.
type Group struct {
	Label string
	Icon  string
	Sort  int
}

// Config overall data structure.
type Config struct {
	DevMode       bool // enable dev mode for development
	Title         string
	DefaultLocale string // locale used when a translatable setting is read without one
	DB            DB
	Log           logger.Log
	Cache         Cache
	Seeder        Seeder
	Groups        map[string]Group
}
