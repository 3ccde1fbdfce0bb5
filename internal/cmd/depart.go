package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tarediiran-industries.com/train-dispatch/internal/register"
)

func NewDepartCmd(app *DispatchApp) *cobra.Command {
	var (
		at      string
		nextDay bool
	)

	cmd := &cobra.Command{
		Use:   "depart",
		Short: "Advance the clock and show which trains have left",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			newTime, err := register.ParseTimeOfDay(at)
			if err != nil {
				return err
			}

			reg, err := app.newRegister()
			if err != nil {
				return err
			}

			if nextDay {
				err = reg.RollOver(newTime)
			} else {
				err = reg.SetTime(newTime)
			}
			if err != nil {
				app.metrics.OperationErrorsTotal.WithLabelValues("set-clock").Inc()
				return err
			}

			departed := reg.DepartTrains()
			app.metrics.DeparturesDepartedTotal.Add(float64(len(departed)))
			app.metrics.RegisterSize.Set(float64(reg.Len()))
			app.logger.Info("clock updated", zap.Stringer("clock", reg.Clock()), zap.Int("departed", len(departed)))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current time: %s\n", reg.Clock())
			writeTable(out, "Departed trains", departed)
			writeTable(out, "Remaining departures", reg.SortByEffectiveTime())
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "New clock time (hh:mm)")
	cmd.Flags().BoolVar(&nextDay, "next-day", false, "Interpret --at as a time on the next service day")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}
