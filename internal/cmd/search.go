package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tarediiran-industries.com/train-dispatch/internal/register"
)

func NewSearchCmd(app *DispatchApp) *cobra.Command {
	var (
		trainNumber int
		destination string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find departures by train number or destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			byNumber := cmd.Flags().Changed("train")
			if byNumber == (destination != "") {
				return errors.New("exactly one of --train or --destination must be specified")
			}

			reg, err := app.newRegister()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if byNumber {
				departure, ok := reg.FindByTrainNumber(trainNumber)
				if !ok {
					fmt.Fprintf(out, "Train number %d not found\n", trainNumber)
					return nil
				}
				writeTable(out, "Train found", []register.Departure{departure})
				return nil
			}

			writeTable(out, "Trains to "+destination, reg.FindByDestination(destination))
			return nil
		},
	}

	cmd.Flags().IntVar(&trainNumber, "train", 0, "Train number to look up")
	cmd.Flags().StringVar(&destination, "destination", "", "Destination to list departures for")

	return cmd
}
