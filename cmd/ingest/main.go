// Command ingest precomputes longitude samples into the configured store so
// that the table ephemeris mode can interpolate them later.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jyotish-lab/internal/app"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ingestion"
)

// summary is the JSON document written after a run.
type summary struct {
	Provider          string `json:"provider"`
	From              string `json:"from"`
	To                string `json:"to"`
	Step              string `json:"step"`
	Stored            int    `json:"stored"`
	DuplicatesSkipped int    `json:"duplicates_skipped"`
	Errors            int    `json:"errors"`
	DurationMs        int64  `json:"duration_ms"`
}

func main() {
	os.Exit(app.Run(newRootCmd()))
}

func newRootCmd() *cobra.Command {
	var (
		from      string
		to        string
		step      time.Duration
		bodies    []string
		batchSize int
		selected  []domain.Body
	)

	cmd := &cobra.Command{
		Use:   "ingest --from DATE --to DATE",
		Short: "Store sampled body longitudes for table-backed lookups",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range []string{from, to} {
				if _, err := app.ParseInstant(s, time.UTC); err != nil {
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

			start, err := app.ParseInstant(from, a.Location)
			if err != nil {
				return err
			}
			end, err := app.ParseInstant(to, a.Location)
			if err != nil {
				return err
			}

			sampler, err := a.Sampler(batchSize)
			if err != nil {
				return err
			}
			res, err := sampler.SampleRange(ctx, selected, start, end, step)
			if err != nil {
				return err
			}

			if err := app.WriteJSON(cmd.OutOrStdout(), summarize(a.Source().Name(), start, end, step, res)); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first sample time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last sample time, inclusive")
	cmd.Flags().DurationVar(&step, "step", 24*time.Hour, "interval between samples")
	cmd.Flags().StringSliceVar(&bodies, "bodies", nil, "comma-separated bodies (default: all)")
	cmd.Flags().IntVar(&batchSize, "batch-size", ingestion.DefaultBatchSize, "samples per insert")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	app.BindFlags(cmd)
	return cmd
}

func summarize(provider string, from, to time.Time, step time.Duration, res *ingestion.SampleResult) summary {
	return summary{
		Provider:          provider,
		From:              from.Format(time.RFC3339),
		To:                to.Format(time.RFC3339),
		Step:              step.String(),
		Stored:            res.Stored,
		DuplicatesSkipped: res.DuplicatesSkipped,
		Errors:            res.Errors,
		DurationMs:        res.Duration.Milliseconds(),
	}
}
