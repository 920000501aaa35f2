package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quartzlabs/durapool/internal/config"
	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the durapool configuration file",
}

//nolint:gochecknoglobals // Cobra CLI pattern
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Init writes a default config.yaml under the durapool home directory.
It refuses to overwrite an existing file.

The pool account list starts empty and must be filled in before run
will start.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		path := config.Path(cfg.Home)
		if _, err := os.Stat(path); err == nil {
			return durerr.WithSuggestion(
				durerr.WithDetails(durerr.ErrConfigInvalid, map[string]string{"path": path}),
				"a config file already exists; edit it or remove it first")
		}

		fresh := config.Defaults()
		fresh.Home = cfg.Home
		if err := config.Save(fresh, path); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "wrote %s\n", path)
		fmt.Fprintln(os.Stdout, "add nonce accounts under pool.accounts and set network.rpc before running")
		return nil
	},
}

//nolint:gochecknoglobals // Cobra CLI pattern
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Show prints the configuration after defaults, the config file,
environment variables, and flags have all been applied.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return durerr.Wrap(durerr.ErrConfigInvalid, err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

//nolint:gochecknoglobals // Cobra CLI pattern
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective configuration for errors",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "configuration is valid")
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern
func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
