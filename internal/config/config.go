// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
)

const (
	defaultLocale      = "en"
	defaultCacheTTL    = 3600
	defaultCachePrefix = "settings"
	defaultSeederPath  = "./seeders"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv("GO_ML_SETTINGS_CONFIG_JSON")

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return validate(c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill in defaults for everything
// the settings engine needs at runtime.
func validate(c Config) (Config, error) {
	invalidErrMessage := "invalid config"

	switch c.DB.Engine {
	case "", EngineSQLite:
		c.DB.Engine = EngineSQLite
		if c.DB.Path == "" {
			c.DB.Path = "./settings.db"
		}
	case EngineMySQL, EnginePostgres:
		if c.DB.Name == "" {
			return c, errors.Wrap(ErrDBNameEmpty, invalidErrMessage)
		}
		if c.DB.Host == "" {
			return c, errors.Wrap(ErrDBHostEmpty, invalidErrMessage)
		}
	default:
		return c, errors.Wrap(ErrDBEngineUnknown, invalidErrMessage)
	}

	if c.DefaultLocale == "" {
		c.DefaultLocale = defaultLocale
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = defaultCacheTTL
	}

	if c.Cache.Prefix == "" {
		c.Cache.Prefix = defaultCachePrefix
	}

	if c.Seeder.Path == "" {
		c.Seeder.Path = defaultSeederPath
	}

	return c, nil
}
