package config

import (
	"errors"
)

var (
	// ErrDBEngineUnknown error if config db.engine is not a supported engine.
	ErrDBEngineUnknown = errors.New("toml config db.engine must be sqlite, mysql or postgres")

	// ErrDBNameEmpty error if config db.name is empty for a server engine.
	ErrDBNameEmpty = errors.New("toml config db.name can not be empty")

	// ErrDBHostEmpty error if config db.host is empty for a server engine.
	ErrDBHostEmpty = errors.New("toml config db.host can not be empty")
)
