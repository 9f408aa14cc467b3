// backtest replays the prediction engine over finished matches and prints
// accuracy, calibration and ROI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/Alias1177/FootballPredictor/internal/app"
	"github.com/Alias1177/FootballPredictor/internal/backtest"
	"github.com/Alias1177/FootballPredictor/internal/config"
	"github.com/Alias1177/FootballPredictor/models"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

var (
	// Range flags
	from     = flag.String("from", "", "First day of the range, YYYY-MM-DD (default 30 days ago)")
	to       = flag.String("to", "", "Last day of the range, YYYY-MM-DD (default today)")
	leagueID = flag.Int("league", 0, "Restrict to one league id")
	limit    = flag.Int("limit", 0, "Maximum number of matches (default BACKTEST_LIMIT, 10 when -detailed)")

	// Output flags
	detailed   = flag.Bool("detailed", false, "Explain every replayed match")
	outputFile = flag.String("output", "", "Write the JSON report to this file")
	verbose    = flag.Bool("verbose", false, "Print every match result")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	app.SetupLogging(cfg.LogLevel)

	opts, err := parseOptions(cfg, time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid backtest range")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start prediction engine")
	}
	defer a.Close()

	var result any
	if *detailed {
		report, err := a.Backtest.RunDetailed(ctx, opts)
		if err != nil {
			log.Fatal().Err(err).Msg("Detailed backtest failed")
		}
		printReport(&report.Report)
		printDetailed(report)
		result = report
	} else {
		report, err := a.Backtest.Run(ctx, opts)
		if err != nil {
			log.Fatal().Err(err).Msg("Backtest failed")
		}
		printReport(report)
		if *verbose {
			printMatches(report.Matches)
		}
		result = report
	}

	if *outputFile != "" {
		if err := exportJSON(result, *outputFile); err != nil {
			log.Error().Err(err).Msg("Failed to export report")
		} else {
			log.Info().Str("file", *outputFile).Msg("Report exported")
		}
	}
}

func parseOptions(cfg *config.Config, now time.Time) (backtest.Options, error) {
	opts := backtest.Options{
		Start:    now.AddDate(0, 0, -30),
		End:      now,
		LeagueID: *leagueID,
		Limit:    *limit,
	}
	if opts.Limit == 0 && !*detailed {
		opts.Limit = cfg.BacktestLimit
	}

	if *from != "" {
		t, err := time.Parse(dateLayout, *from)
		if err != nil {
			return opts, fmt.Errorf("parsing -from: %w", err)
		}
		opts.Start = t
	}
	if *to != "" {
		t, err := time.Parse(dateLayout, *to)
		if err != nil {
			return opts, fmt.Errorf("parsing -to: %w", err)
		}
		opts.End = t
	}
	if opts.End.Before(opts.Start) {
		return opts, fmt.Errorf("range ends before it starts")
	}
	return opts, nil
}

func printReport(r *models.BacktestReport) {
	fmt.Println("\n========== BACKTEST RESULTS ==========")
	fmt.Printf("Range:             %s to %s\n", r.Start.Format(dateLayout), r.End.Format(dateLayout))
	fmt.Printf("Matches:           %d evaluated, %d skipped\n", r.Evaluated, r.Skipped)
	fmt.Println("\n--- Accuracy ---")
	fmt.Printf("Outcome:           %.1f%%\n", r.OutcomeAccuracy)
	for _, tier := range []string{backtest.TierHigh, backtest.TierMedium, backtest.TierLow} {
		t := r.ByConfidence[tier]
		fmt.Printf("  %-6s           %.1f%% (%d/%d)\n", tier, t.Accuracy, t.Correct, t.Total)
	}
	fmt.Printf("BTTS:              %.1f%%\n", r.BTTSAccuracy)
	for _, line := range sortedKeys(r.OverUnderAccuracy) {
		fmt.Printf("Over/Under %s:    %.1f%%\n", line, r.OverUnderAccuracy[line])
	}
	fmt.Printf("Exact score:       %.1f%%\n", r.ExactScoreRate)
	fmt.Printf("xG MAE:            %.2f (correlation %.2f)\n", r.Goals.MeanAbsoluteError, r.Goals.Correlation)

	fmt.Println("\n--- Flat stake ROI ---")
	for _, market := range []string{backtest.MarketOutcome, backtest.MarketBTTS, backtest.MarketOver25} {
		roi := r.ROI[market]
		fmt.Printf("%-8s %3d bets, %3d wins, profit %+.2f, ROI %+.2f%%\n", market, roi.Bets, roi.Wins, roi.Profit, roi.ROI)
	}

	fmt.Println("\n--- Insights ---")
	for _, insight := range r.Insights {
		fmt.Printf("- %s\n", insight)
	}
	fmt.Println("======================================")
}

func printDetailed(r *models.DetailedBacktestReport) {
	fmt.Println("\n--- Matches ---")
	for _, m := range r.Matches {
		fmt.Printf("%s %s vs %s %s (predicted %s, %d%%)\n",
			m.Kickoff.Format(dateLayout), m.HomeTeam, m.AwayTeam, m.ActualScore, m.PredictedScore, m.ConfidenceScore)
		for _, note := range m.Notes {
			fmt.Printf("    %s\n", note)
		}
	}

	fmt.Println("\n--- By result ---")
	for _, b := range r.OutcomeBreakdown {
		fmt.Printf("%s: %d/%d correct\n", b.Actual, b.Correct, b.Total)
	}

	fmt.Printf("\nScore in top 3: %.1f%%, top 10: %.1f%%\n", r.Goals.ScoreInTop3, r.Goals.ScoreInTop10)
	fmt.Println("\n--- Recommendations ---")
	for _, rec := range r.Recommendations {
		fmt.Printf("- %s\n", rec)
	}
}

func printMatches(matches []models.BacktestMatchResult) {
	fmt.Println("\n--- Matches ---")
	for _, m := range matches {
		mark := "✗"
		if m.OutcomeCorrect {
			mark = "✓"
		}
		fmt.Printf("%s %s %s vs %s: %s, predicted %s (%.0f/%.0f/%.0f)\n",
			mark, m.Kickoff.Format(dateLayout), m.HomeTeam, m.AwayTeam, m.ActualScore, m.PredictedOutcome, m.HomeWin, m.Draw, m.AwayWin)
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func exportJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
