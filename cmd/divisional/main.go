// Command divisional prints the divisional (varga) charts of a moment.
//
//	divisional YEAR MONTH DAY HOUR MINUTE [--division N] [--format json|markdown|csv]
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jyotish-lab/internal/app"
	"jyotish-lab/internal/divisional"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/reporting"
)

func main() {
	os.Exit(app.Run(newRootCmd()))
}

func newRootCmd() *cobra.Command {
	var (
		format   string
		division int
		bodies   []string
		selected []domain.Body
	)

	cmd := &cobra.Command{
		Use:   "divisional YEAR MONTH DAY HOUR MINUTE",
		Short: "Compute divisional charts for a moment",
		Args:  app.ValidateMoment,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.CheckFormat(format, "json", "markdown", "csv"); err != nil {
				return err
			}
			if division != 0 {
				if _, err := divisional.Lookup(division); err != nil {
					return err
				}
			}
			var err error
			selected, err = app.ParseBodies(bodies)
			return err
		},
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

			moment, err := app.ParseMoment(args, a.Location)
			if err != nil {
				return err
			}

			divisions := divisional.Harmonics()
			if division != 0 {
				divisions = []int{division}
			}

			set := a.Assembler().AssembleAt(ctx, a.Provider, selected, moment)
			doc := reporting.DivisionalJSON(set, divisions)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				err = app.WriteJSON(out, doc)
			case "markdown":
				_, err = fmt.Fprint(out, reporting.RenderDivisionalMarkdown(doc, divisions))
			case "csv":
				_, err = fmt.Fprint(out, reporting.RenderChartCSV(doc, divisions))
			}
			if err != nil {
				return fmt.Errorf("write result: %w", err)
			}

			if doc.Status == reporting.StatusFailed {
				return app.ErrReported
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, markdown, csv")
	cmd.Flags().IntVarP(&division, "division", "d", 0, "single division to report (default: all)")
	cmd.Flags().StringSliceVar(&bodies, "bodies", nil, "comma-separated bodies (default: all)")
	app.BindFlags(cmd)
	return cmd
}
