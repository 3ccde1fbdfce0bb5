package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/train-dispatch/internal/common"
)

func NewVersionCmd(app *DispatchApp) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		// no config, logger or telemetry needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !asJSON {
				_, err := fmt.Fprintf(out, "train-dispatch %s (%s)\n", common.Version, common.GitCommit)
				return err
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"version":    common.Version,
				"git_commit": common.GitCommit,
				"go":         runtime.Version(),
				"go_os":      runtime.GOOS,
				"go_arch":    runtime.GOARCH,
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print detailed JSON version info")

	return cmd
}
