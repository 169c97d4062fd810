package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/era-engine/fibers/internal/config"
	"github.com/era-engine/fibers/internal/models"
	"github.com/era-engine/fibers/internal/services"
	"github.com/era-engine/fibers/internal/store"
	"github.com/era-engine/fibers/internal/store/migrations"
)

func newRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the synthetic engine workload and print its report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorkload(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().IntVar(&cfg.Workload.Repeat, "repeat", cfg.Workload.Repeat, "number of runs")
	return cmd
}

func runWorkload(ctx context.Context, out io.Writer, cfg *config.Configuration) error {
	st, err := openStore(ctx, cfg.Store.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := services.NewWorkloadService(cfg.Scheduler, st)
	params := services.NewWorkloadParams(cfg.Workload)

	for i := range cfg.Workload.Repeat {
		report, err := srv.Run(ctx, params)
		if err != nil {
			return fmt.Errorf("run %d failed: %w", i+1, err)
		}
		printReport(out, i+1, report)
		if report.Status == models.RunStatusCanceled {
			return ctx.Err()
		}
	}
	return nil
}

func openStore(ctx context.Context, path string) (*store.Store, error) {
	db, err := store.NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return store.NewStore(db), nil
}

func printReport(out io.Writer, n int, r *models.RunReport) {
	status := color.New(color.FgGreen).Sprint(r.Status)
	if r.Status != models.RunStatusCompleted {
		status = color.New(color.FgYellow).Sprint(r.Status)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "run %d\t%s\t%s\n", n, r.ID, status)
	fmt.Fprintf(w, "  frames\t%d/%d\tframe time %s\n", r.FramesRun, r.Frames, r.FrameTime())
	fmt.Fprintf(w, "  jobs\t%d\tduration %s\n", r.JobsExecuted, r.Duration)
	fmt.Fprintf(w, "  switches\t%d\tresumed waiters %d\n", r.Switches, r.ResumedWaiters)
	fmt.Fprintf(w, "  fibers\t%d\tmin free %d\n", r.FiberPoolSize, r.MinFreeFibers)
	w.Flush()
}
