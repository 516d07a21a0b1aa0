package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sportsbook-performance/internal/health"
	"github.com/yourusername/sportsbook-performance/internal/metrics"
	"github.com/yourusername/sportsbook-performance/internal/scheduler"
	"github.com/yourusername/sportsbook-performance/internal/service"
)

type stageFunc func(ctx context.Context, p *service.Pipeline, day time.Time) (*service.RunSummary, error)

// stageCommand builds a one-shot command. offsetDays applies when --date is
// not given: results and sync default to yesterday's games.
func stageCommand(use, short string, offsetDays int, fn stageFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			day, err := resolveDate(offsetDays)
			if err != nil {
				return err
			}
			pipeline, err := buildPipeline(ctx)
			if err != nil {
				return err
			}

			sum, err := fn(ctx, pipeline, day)
			if sum != nil {
				fmt.Fprintln(cmd.OutOrStdout(), sum.String())
				for _, path := range sum.Files {
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				}
			}
			return err
		},
	}
}

var oddsCmd = stageCommand("odds", "Scrape and normalize the day's moneyline odds", 0,
	func(ctx context.Context, p *service.Pipeline, day time.Time) (*service.RunSummary, error) {
		return p.CollectOdds(ctx, day, sports)
	})

var resultsCmd = stageCommand("results", "Fetch scores for the matches in the day's odds file", -1,
	func(ctx context.Context, p *service.Pipeline, day time.Time) (*service.RunSummary, error) {
		return p.FetchResults(ctx, day, sports)
	})

var syncCmd = stageCommand("sync", "Reconcile the day's odds and results into the performance report", -1,
	func(ctx context.Context, p *service.Pipeline, day time.Time) (*service.RunSummary, error) {
		return p.Sync(ctx, day)
	})

var runCmd = stageCommand("run", "Run the odds, results and sync stages in order", 0,
	func(ctx context.Context, p *service.Pipeline, day time.Time) (*service.RunSummary, error) {
		return p.Run(ctx, day, sports)
	})

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled jobs with health and metrics endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		pipeline, err := buildPipeline(ctx)
		if err != nil {
			return err
		}

		sched := scheduler.NewScheduler(pipeline, sports, loc, appLog)
		if err := sched.ScheduleOddsCollection(cfg.Schedule.OddsCron); err != nil {
			return err
		}
		if err := sched.ScheduleSync(cfg.Schedule.SyncCron); err != nil {
			return err
		}

		hcfg := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        strconv.Itoa(cfg.Metrics.Port),
			Logger:      appLog,
			Jobs:        sched,
		}
		if db != nil {
			hcfg.DB = db
		}
		if cfg.Metrics.Enabled {
			hcfg.Metrics = metrics.Handler()
			hcfg.MetricsPath = cfg.Metrics.Path
		}
		server := health.NewServer(hcfg)
		if err := server.Start(ctx); err != nil {
			return err
		}

		if err := sched.Start(); err != nil {
			return err
		}
		server.SetReady(true)

		appLog.WithFields(logrus.Fields{
			"odds_cron": cfg.Schedule.OddsCron,
			"sync_cron": cfg.Schedule.SyncCron,
			"next_run":  sched.GetNextRun().Format(time.RFC3339),
			"port":      cfg.Metrics.Port,
		}).Info("Scheduler running")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			appLog.WithField("signal", sig).Info("Shutdown signal received")
		case <-ctx.Done():
		}

		server.SetReady(false)
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error during scheduler shutdown")
		}
		cancel()
		if err := server.Shutdown(); err != nil {
			appLog.WithError(err).Error("Error during health server shutdown")
		}

		appLog.Info("Sportsbook performance service shut down")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sportsbook %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}
