package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDeparturesCmd(app *DispatchApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "departures",
		Short: "Print all departures ordered by effective departure time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := app.newRegister()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current time: %s\n", reg.Clock())
			writeTable(out, "Departures", reg.SortByEffectiveTime())
			return nil
		},
	}

	return cmd
}
