// Command sadesati reports the Sade Sati window of a birth moment.
//
//	sadesati YEAR MONTH DAY HOUR MINUTE [--format json|markdown]
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jyotish-lab/internal/app"
	"jyotish-lab/internal/reporting"
	"jyotish-lab/internal/sadesati"
)

func main() {
	os.Exit(app.Run(newRootCmd()))
}

func newRootCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "sadesati YEAR MONTH DAY HOUR MINUTE",
		Short: "Compute the Sade Sati window for a birth moment",
		Args:  app.ValidateMoment,
		Long: "Finds the natal Moon sign, the three Saturn ingresses that bound the " +
			"seven-and-a-half-year transit, and where the present moment falls in it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Bootstrap(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.Close(); cerr != nil {
					a.Logger.Error().Err(cerr).Msg("Shutdown failed")
				}
			}()

			birth, err := app.ParseMoment(args, a.Location)
			if err != nil {
				return err
			}

			res := a.Engine().Compute(ctx, birth)
			doc := reporting.SadeSatiJSON(res)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				err = app.WriteJSON(out, doc)
			case "markdown":
				_, err = fmt.Fprint(out, reporting.RenderSadeSatiMarkdown(doc))
			}
			if err != nil {
				return fmt.Errorf("write result: %w", err)
			}

			if res.Status == sadesati.StatusFailed {
				return app.ErrReported
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return app.CheckFormat(format, "json", "markdown")
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, markdown")
	app.BindFlags(cmd)
	return cmd
}
