package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoMLSettings/GoMLSettings/internal/seeder"
	"github.com/GoMLSettings/GoMLSettings/internal/service"
)

func init() { //nolint: gochecknoinits
	generateSeederCmd.Flags().StringVar(&seederName, "name", seeder.DefaultName, "Name of the generated seed")

	rootCmd.AddCommand(generateSeederCmd)
	rootCmd.AddCommand(applySeederCmd)
}

var (
	seederName string

	generateSeederCmd = &cobra.Command{
		Use:    "generate-seeder",
		Short:  "Generate a seed file from the current settings",
		PreRun: readConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := service.New(&cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			gen := seeder.New(svc.Store, cfg.Seeder.Path)

			path, err := gen.Generate(cmd.Context(), seederName)
			if err != nil {
				return err
			}

			log.Info().Str("path", path).Msg("settings seed generated")

			return nil
		},
	}

	applySeederCmd = &cobra.Command{
		Use:    "apply-seeder <file>",
		Short:  "Replay a previously generated seed file",
		Args:   cobra.ExactArgs(1),
		PreRun: readConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service.New(&cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			gen := seeder.New(svc.Store, cfg.Seeder.Path)

			if err := gen.ApplyFile(cmd.Context(), args[0]); err != nil {
				return err
			}

			// A replay rewrites every setting, so flush rather than track keys.
			svc.Manager.ClearCache(cmd.Context())

			log.Info().Str("path", args[0]).Msg("settings seed applied")

			return nil
		},
	}
)
