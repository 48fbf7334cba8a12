// Package main provides the entry point for the GoMLSettings application.
// GoMLSettings is a multi-language application settings store with typed
// values, per-locale translations and a two-tier cache. Settings are
// persisted with gorm, resolved through an in-process and a shared cache
// tier, and can be exported to a replayable seed file for migration
// between environments.
package main
