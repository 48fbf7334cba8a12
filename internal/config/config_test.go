package config

import (
	"path/filepath"
	"testing"
)

func TestReadConfig(t *testing.T) {
	var (
		err         error
		projectRoot string
	)

	// Get the project root by going up from internal/config
	projectRoot, err = filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	var cfg Config

	cfg, err = ReadConfig(configPath)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	// Test basic config fields
	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.DefaultLocale == "" {
		t.Error("Config.DefaultLocale should not be empty")
	}

	// Test DB config
	if cfg.DB.Engine != EngineSQLite {
		t.Errorf("DB.Engine = %q, want %q", cfg.DB.Engine, EngineSQLite)
	}

	if cfg.DB.Path == "" {
		t.Error("DB.Path should not be empty for the sqlite engine")
	}

	// Test cache defaults
	if cfg.Cache.TTL == 0 {
		t.Error("Cache.TTL should have been defaulted")
	}

	if cfg.Cache.Prefix == "" {
		t.Error("Cache.Prefix should have been defaulted")
	}

	// Test Groups map is populated
	if cfg.Groups == nil {
		t.Fatal("Groups map should not be nil")
	}

	if len(cfg.Groups) == 0 {
		t.Error("Groups map should not be empty")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "empty engine defaults to sqlite",
			cfg:     Config{},
			wantErr: nil,
		},
		{
			name:    "unknown engine",
			cfg:     Config{DB: DB{Engine: "oracle"}},
			wantErr: ErrDBEngineUnknown,
		},
		{
			name:    "mysql without name",
			cfg:     Config{DB: DB{Engine: EngineMySQL, Host: "localhost"}},
			wantErr: ErrDBNameEmpty,
		},
		{
			name:    "postgres without host",
			cfg:     Config{DB: DB{Engine: EnginePostgres, Name: "settings"}},
			wantErr: ErrDBHostEmpty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			validated, err := validate(tc.cfg)

			if tc.wantErr != nil {
				if err == nil {
					t.Fatalf("validate() expected error %v, got nil", tc.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("validate() error = %v", err)
			}

			if validated.DefaultLocale == "" {
				t.Error("DefaultLocale should have been defaulted")
			}

			if validated.Cache.TTL != defaultCacheTTL {
				t.Errorf("Cache.TTL = %d, want %d", validated.Cache.TTL, defaultCacheTTL)
			}

			if validated.Seeder.Path == "" {
				t.Error("Seeder.Path should have been defaulted")
			}
		})
	}
}
