package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sportsbook-performance/internal/config"
	"github.com/yourusername/sportsbook-performance/internal/datasource"
	"github.com/yourusername/sportsbook-performance/internal/extractor"
	"github.com/yourusername/sportsbook-performance/internal/logger"
	"github.com/yourusername/sportsbook-performance/internal/metrics"
	"github.com/yourusername/sportsbook-performance/internal/models"
	"github.com/yourusername/sportsbook-performance/internal/normalizer"
	"github.com/yourusername/sportsbook-performance/internal/reconciler"
	"github.com/yourusername/sportsbook-performance/internal/report"
	"github.com/yourusername/sportsbook-performance/internal/repository"
)

// Pipeline stages
const (
	StageOdds    = "odds"
	StageResults = "results"
	StageSync    = "sync"
	StageRun     = "run"
)

// PipelineConfig wires the pipeline's collaborators
type PipelineConfig struct {
	Markup datasource.MarkupSource
	// Results may be nil when no API key is configured; the results stage
	// then fails with models.ErrMissingCredential.
	Results    datasource.ResultsSource
	Sports     *config.SportTable
	Store      *report.Store
	Repository repository.ReportRepository
	DaysFrom   int
	Location   *time.Location
	Logger     *logrus.Logger
}

// Pipeline runs the odds, results and sync stages for a run date
type Pipeline struct {
	markup     datasource.MarkupSource
	results    datasource.ResultsSource
	sports     *config.SportTable
	store      *report.Store
	repo       repository.ReportRepository
	normalizer *normalizer.Normalizer
	daysFrom   int
	loc        *time.Location
	logger     *logrus.Logger
	plog       *logger.PipelineLogger
	now        func() time.Time
}

// NewPipeline creates a pipeline
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Sports == nil {
		return nil, fmt.Errorf("sport table is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("report store is required")
	}
	loc := cfg.Location
	if loc == nil {
		loc = cfg.Store.Location()
	}
	log := logger.OrDiscard(cfg.Logger)

	return &Pipeline{
		markup:     cfg.Markup,
		results:    cfg.Results,
		sports:     cfg.Sports,
		store:      cfg.Store,
		repo:       cfg.Repository,
		normalizer: normalizer.New(cfg.Sports.IsDrawEligible, log),
		daysFrom:   cfg.DaysFrom,
		loc:        loc,
		logger:     log,
		plog:       logger.NewPipelineLogger(log, "pipeline"),
		now:        time.Now,
	}, nil
}

// CollectOdds scrapes, normalizes and saves the odds of the given sports
// (all configured sports when empty). A failing sport is skipped.
func (p *Pipeline) CollectOdds(ctx context.Context, day time.Time, sports []string) (*RunSummary, error) {
	sum := NewRunSummary(StageOdds, day.In(p.loc))
	err := p.runStage(sum, StageOdds, func() error {
		return p.collectOdds(ctx, sum, sports)
	})
	p.finish(sum)
	return sum, err
}

// FetchResults fetches results for the sports present in the run date's
// odds file and saves those that belong to a scraped match.
func (p *Pipeline) FetchResults(ctx context.Context, day time.Time, sports []string) (*RunSummary, error) {
	sum := NewRunSummary(StageResults, day.In(p.loc))
	err := p.runStage(sum, StageResults, func() error {
		return p.fetchResults(ctx, sum, sports)
	})
	p.finish(sum)
	return sum, err
}

// Sync reconciles the saved odds and results of a run date and writes the
// performance report.
func (p *Pipeline) Sync(ctx context.Context, day time.Time) (*RunSummary, error) {
	sum := NewRunSummary(StageSync, day.In(p.loc))
	err := p.runStage(sum, StageSync, func() error {
		return p.sync(ctx, sum)
	})
	p.finish(sum)
	return sum, err
}

// Run executes all three stages. Warnings of the earlier stages are
// included in the report's completeness table.
func (p *Pipeline) Run(ctx context.Context, day time.Time, sports []string) (*RunSummary, error) {
	sum := NewRunSummary(StageRun, day.In(p.loc))
	defer p.finish(sum)

	if err := p.runStage(sum, StageOdds, func() error { return p.collectOdds(ctx, sum, sports) }); err != nil {
		return sum, err
	}
	if err := p.runStage(sum, StageResults, func() error { return p.fetchResults(ctx, sum, sports) }); err != nil {
		return sum, err
	}
	if err := p.runStage(sum, StageSync, func() error { return p.sync(ctx, sum) }); err != nil {
		return sum, err
	}
	return sum, nil
}

func (p *Pipeline) runStage(sum *RunSummary, stage string, fn func() error) error {
	start := time.Now()
	p.plog.LogStageStart(sum.RunID.String(), stage, sum.RunDate)

	err := fn()
	metrics.RecordStage(stage, time.Since(start), err)
	if err != nil {
		p.plog.WithError(err).WithFields(logrus.Fields{
			"run_id": sum.RunID.String(),
			"stage":  stage,
		}).Error("Stage failed")
		return fmt.Errorf("%s stage: %w", stage, err)
	}

	p.plog.LogStageComplete(sum.RunID.String(), stage, time.Since(start), sum.Fields())
	return nil
}

func (p *Pipeline) finish(sum *RunSummary) {
	sum.Finish()
	p.plog.LogRunSummary(sum.RunID.String(), sum.Fields(), sum.WarningCounts())
	if fields := cacheStatsFields(p.results); fields != nil {
		p.logger.WithFields(fields).Debug("Results cache stats")
	}
}

// cacheStats is implemented by datasource.CachedResultsSource
type cacheStats interface {
	Stats() (hits, misses uint64, ratio float64)
	ItemCount() int
}

func cacheStatsFields(src datasource.ResultsSource) logrus.Fields {
	cs, ok := src.(cacheStats)
	if !ok {
		return nil
	}
	hits, misses, ratio := cs.Stats()
	return logrus.Fields{
		"cache_hits":      hits,
		"cache_misses":    misses,
		"cache_hit_ratio": ratio,
		"cache_items":     cs.ItemCount(),
	}
}

func (p *Pipeline) warn(sum *RunSummary, warnings ...models.Warning) {
	for _, w := range warnings {
		metrics.RecordWarning(string(w.Kind))
	}
	p.plog.LogWarnings(warnings)
	sum.AddWarnings(warnings...)
}

func (p *Pipeline) collectOdds(ctx context.Context, sum *RunSummary, names []string) error {
	if p.markup == nil {
		return fmt.Errorf("no markup source configured")
	}

	selected, unknown := p.sports.Select(names)
	for _, name := range unknown {
		p.warn(sum, models.Warning{
			Kind:    models.WarningUnmappedSport,
			Sport:   name,
			Message: "sport is not in the sport table",
		})
	}

	var all []models.NormalizedOdds
	for _, sport := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		sum.Sports++

		extraction, err := p.scrape(ctx, sport.Name)
		if err != nil {
			sum.RecordFetchFailure(sport.Name)
			metrics.RecordFetchFailure(p.markup.Name(), sport.Name)
			p.plog.LogFetchFailure(p.markup.Name(), sport.Name, err)
			p.warn(sum, models.Warning{
				Kind:    models.WarningMarkupFetchFailed,
				Sport:   sport.Name,
				Message: err.Error(),
			})
			continue
		}
		p.warn(sum, extraction.Warnings...)

		records := normalizer.FilterByDate(extraction.Records, sum.RunDate)
		sum.Extracted += len(records)
		metrics.RecordExtracted(sport.Name, len(records))

		normalized := p.normalizer.Normalize(sport.Name, records, p.now().In(p.loc))
		p.warn(sum, normalized.Warnings...)
		sum.Normalized += len(normalized.Odds)
		sum.DroppedGroups += normalized.DroppedGroups
		metrics.RecordNormalized(sport.Name, len(normalized.Odds))

		all = append(all, normalized.Odds...)
	}

	path, err := p.store.SaveOdds(sum.RunDate, all)
	if err != nil {
		return err
	}
	sum.RecordFile(path)
	return nil
}

func (p *Pipeline) scrape(ctx context.Context, sport string) (*extractor.Extraction, error) {
	markup, err := p.markup.FetchMarkup(ctx, p.sports.Path(sport))
	if err != nil {
		return nil, err
	}
	return extractor.Extract(strings.NewReader(markup), sport, p.loc)
}

func (p *Pipeline) fetchResults(ctx context.Context, sum *RunSummary, names []string) error {
	if p.results == nil {
		return models.ErrMissingCredential
	}

	odds, err := p.store.LoadOdds(sum.RunDate)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var sports []string
	seenSport := make(map[string]bool)
	keys := make(map[models.MatchKey]bool, len(odds))
	for _, o := range odds {
		keys[o.Match.Key()] = true
		if seenSport[o.Match.Sport] {
			continue
		}
		seenSport[o.Match.Sport] = true
		if len(wanted) == 0 || wanted[strings.ToLower(o.Match.Sport)] {
			sports = append(sports, o.Match.Sport)
		}
	}

	var kept []models.GameResult
	for _, sport := range sports {
		if err := ctx.Err(); err != nil {
			return err
		}
		sum.Sports++

		results, err := p.results.FetchResults(ctx, sport, p.daysFrom)
		if err != nil {
			sum.RecordFetchFailure(sport)
			metrics.RecordFetchFailure(p.results.Name(), sport)
			p.plog.LogFetchFailure(p.results.Name(), sport, err)
			p.warn(sum, models.Warning{
				Kind:    models.WarningKindForError(err),
				Sport:   sport,
				Message: err.Error(),
			})
			continue
		}

		n := 0
		for _, r := range results {
			if keys[r.Key()] {
				kept = append(kept, r)
				n++
			}
		}
		sum.Results += n
		metrics.RecordResultsFetched(sport, n)
	}

	path, err := p.store.SaveResults(sum.RunDate, kept)
	if err != nil {
		return err
	}
	sum.RecordFile(path)
	return nil
}

func (p *Pipeline) sync(ctx context.Context, sum *RunSummary) error {
	odds, err := p.store.LoadOdds(sum.RunDate)
	if err != nil {
		return err
	}
	results, err := p.store.LoadResults(sum.RunDate)
	if err != nil {
		return err
	}

	rec := reconciler.Reconcile(odds, results)
	for _, key := range rec.UnmatchedOdds {
		p.plog.LogUnmatched("odds", key)
	}
	for _, key := range rec.UnmatchedResults {
		p.plog.LogUnmatched("results", key)
	}
	for _, w := range rec.Warnings {
		metrics.RecordWarning(string(w.Kind))
	}
	sum.AddWarnings(rec.Warnings...)

	summaries := reconciler.Summarize(rec.Records)
	sum.Reconciled = len(rec.Records)
	for _, r := range rec.Records {
		metrics.RecordReconciled(string(r.Outcome))
	}
	for _, s := range summaries {
		if s.FavoritePct.Valid {
			metrics.UpdateFavoriteWinRate(s.Bookmaker, s.FavoritePct.Value.InexactFloat64())
		}
		p.logger.WithFields(logrus.Fields{
			"bookmaker":     s.Bookmaker,
			"matches":       s.Matches,
			"completed":     s.Completed,
			"favorite_wins": s.FavoriteWins,
			"favorite_pct":  s.FavoritePct.String(),
		}).Info("Bookmaker summary")
	}

	path, err := p.store.SavePerformance(sum.RunDate, report.Performance{
		Summaries: summaries,
		Records:   rec.Records,
		Warnings:  sum.WarningCounts(),
	})
	if err != nil {
		return err
	}
	sum.RecordFile(path)

	if p.repo != nil {
		if err := p.repo.SaveRun(ctx, sum.RunID, sum.RunDate, rec.Records, summaries); err != nil {
			return fmt.Errorf("failed to persist run: %w", err)
		}
	}
	return nil
}
