package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/GoMLSettings/GoMLSettings/internal/service"
)

func init() { //nolint: gochecknoinits
	getCmd.Flags().StringVar(&settingLocale, "locale", "", "Locale to resolve translatable settings with")
	getCmd.Flags().StringVar(&settingDefault, "default", "", "Fallback printed when the setting does not exist")

	setCmd.Flags().StringVar(&settingLocale, "locale", "", "Locale to write a translation for")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
}

// ErrSettingWriteRejected is returned when set is called for an unknown key.
var ErrSettingWriteRejected = errors.New("setting does not exist, create it first")

var (
	settingLocale  string
	settingDefault string

	getCmd = &cobra.Command{
		Use:    "get <key>",
		Short:  "Resolve and print a setting value",
		Args:   cobra.ExactArgs(1),
		PreRun: readConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service.New(&cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			var def any
			if settingDefault != "" {
				def = settingDefault
			}

			value := svc.Manager.Get(cmd.Context(), args[0], def, settingLocale)
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))

			return nil
		},
	}

	setCmd = &cobra.Command{
		Use:    "set <key> <value>",
		Short:  "Write a setting value or translation",
		Args:   cobra.ExactArgs(2), //nolint:mnd
		PreRun: readConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service.New(&cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			if ok := svc.Manager.Set(cmd.Context(), args[0], args[1], settingLocale); !ok {
				return errors.Wrap(ErrSettingWriteRejected, args[0])
			}

			return nil
		},
	}
)

func formatValue(v any) string {
	if v == nil {
		return ""
	}

	return fmt.Sprintf("%v", v)
}
