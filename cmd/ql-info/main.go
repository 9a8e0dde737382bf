// Command ql-info queries a networked Brother QL printer for its status
// and the media loaded in it.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"janouch.name/seedlabel/config"
	"janouch.name/seedlabel/ql"
)

func main() {
	var (
		model   string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:           "ql-info ADDRESS",
		Short:         "Show the status of a Brother QL printer",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			printer, err := ql.Dial(ctx, args[0], model)
			if err != nil {
				return err
			}
			defer printer.Close()

			printer.StatusTimeout = timeout
			if err := printer.Initialize(); err != nil {
				return err
			}
			if err := printer.UpdateStatus(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			status := printer.LastStatus
			fmt.Fprintf(out, "\x1b[1m%s\x1b[m\n", printer.Model.Name)
			fmt.Fprint(out, status)

			fmt.Fprintln(out, "\x1b[1mMedia information\x1b[m")
			if mi := ql.GetMediaInfo(
				status.MediaWidthMM(), status.MediaLengthMM()); mi != nil {
				fmt.Fprintln(out, "side margin pins:", mi.SideMarginPins)
				fmt.Fprintln(out, "print area pins:", mi.PrintAreaPins)
				fmt.Fprintln(out, "print area length:", mi.PrintAreaLength)
			} else {
				fmt.Fprintln(out, "unknown media")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", config.DefaultModel, "printer model")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second,
		"how long to wait for the printer")

	if err := cmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
