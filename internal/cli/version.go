package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quartzlabs/durapool/internal/version"
)

//nolint:gochecknoglobals // Cobra CLI pattern
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Fprintln(os.Stdout, version.String())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern
func init() {
	rootCmd.AddCommand(versionCmd)
}
