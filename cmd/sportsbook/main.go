// Package main provides the sportsbook performance command line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sportsbook-performance/internal/config"
	"github.com/yourusername/sportsbook-performance/internal/database"
	"github.com/yourusername/sportsbook-performance/internal/datasource"
	"github.com/yourusername/sportsbook-performance/internal/logger"
	"github.com/yourusername/sportsbook-performance/internal/metrics"
	"github.com/yourusername/sportsbook-performance/internal/models"
	"github.com/yourusername/sportsbook-performance/internal/report"
	"github.com/yourusername/sportsbook-performance/internal/repository"
	"github.com/yourusername/sportsbook-performance/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const dateFlagLayout = "2006-01-02"

var (
	configFile string
	runDate    string
	sports     []string

	appLog  *logrus.Logger
	cfg     *config.Config
	loc     *time.Location
	db      *database.DB
	factory *datasource.Factory
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&runDate, "date", "", "Run date as YYYY-MM-DD (default: today in the configured timezone)")
	rootCmd.PersistentFlags().StringSliceVar(&sports, "sport", nil, "Sports to process (default: all configured sports)")

	rootCmd.AddCommand(oddsCmd, resultsCmd, syncCmd, runCmd, serveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "sportsbook",
	Short: "Track how well sportsbook favorites perform",
	Long: `Scrapes moneyline odds from the odds comparer, fetches final scores from
The Odds API and reconciles both into a per-bookmaker performance report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func main() {
	err := rootCmd.Execute()
	cleanup()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// cleanup releases the HTTP clients and the database pool of the command
func cleanup() {
	if factory != nil {
		if err := factory.Close(); err != nil && appLog != nil {
			appLog.WithError(err).Warn("Failed to close HTTP clients")
		}
	}
	if db != nil {
		db.Close()
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if cfg.Secrets.Enabled {
		if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	loc, err = cfg.Location()
	if err != nil {
		return err
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	appLog.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
		"timezone":    loc.String(),
		"version":     Version,
	}).Debug("Configuration loaded")
	return nil
}

// buildPipeline wires sources, the report store and the optional database
// sink. A missing API key only disables the results stage.
func buildPipeline(ctx context.Context) (*service.Pipeline, error) {
	factory = datasource.NewFactory(cfg, appLog)

	results, err := factory.NewResultsSource()
	if err != nil {
		if !errors.Is(err, models.ErrMissingCredential) {
			return nil, err
		}
		appLog.Warn("No results API key configured; results stage is disabled")
		results = nil
	}

	store, err := report.NewStore(cfg.Report.OutputDir, loc)
	if err != nil {
		return nil, err
	}

	pcfg := service.PipelineConfig{
		Markup:   factory.NewMarkupSource(),
		Results:  results,
		Sports:   cfg.SportTable(),
		Store:    store,
		DaysFrom: cfg.ResultsAPI.DaysFrom,
		Location: loc,
		Logger:   appLog,
	}

	if cfg.Database.Enabled {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repos, err := repository.NewRepositories(db)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}
		pcfg.Repository = repos.Report
	}

	return service.NewPipeline(pcfg)
}

// resolveDate returns the --date flag in the configured timezone, or today
// shifted by offsetDays when the flag is empty.
func resolveDate(offsetDays int) (time.Time, error) {
	if strings.TrimSpace(runDate) == "" {
		now := time.Now().In(loc)
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		return day.AddDate(0, 0, offsetDays), nil
	}
	day, err := time.ParseInLocation(dateFlagLayout, strings.TrimSpace(runDate), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD: %w", runDate, err)
	}
	return day, nil
}
