// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/GoMLSettings/GoMLSettings/internal/config"
	"github.com/GoMLSettings/GoMLSettings/internal/logger"
)

var (
	configPath string // Path to the configuration directory

	cfg config.Config
	err error

	rootCmd = &cobra.Command{
		Use:   "go-ml-settings",
		Short: "GoMLSettings is a multi-language application settings store",
		Long: `GoMLSettings is a multi-language application settings store with
typed values, per-locale translations and a two-tier cache. It ships a
small CLI for reading and writing settings and for exporting the current
settings into a replayable seed file.`,
		Args: cobra.OnlyValidArgs,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// readConfig loads the configuration and initializes the logger. It is
// used as PreRun for every command that needs the full application stack.
func readConfig(_ *cobra.Command, _ []string) {
	if cfg, err = config.ReadConfig(configPath); err != nil {
		panic(err)
	}

	if err = logger.Init(cfg.Log); err != nil {
		panic(err)
	}
}
