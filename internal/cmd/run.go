package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/train-dispatch/internal/console"
)

func NewRunCmd(app *DispatchApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive departure console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runConsole(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func (app *DispatchApp) runConsole(in io.Reader, out io.Writer) error {
	reg, err := app.newRegister()
	if err != nil {
		return err
	}

	return console.NewController(reg, in, out, app.logger, app.metrics).Run()
}
