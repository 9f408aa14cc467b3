// predictor prints the prediction of one football match as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Alias1177/FootballPredictor/internal/app"
	"github.com/Alias1177/FootballPredictor/internal/config"
	"github.com/Alias1177/FootballPredictor/internal/orchestrator"
	"github.com/rs/zerolog/log"
)

var (
	matchID     = flag.String("match", "", "Match id to predict")
	syncFixture = flag.Bool("sync", false, "Fetch the fixture from API-Football before predicting (match id is the fixture id)")
	refresh     = flag.Bool("refresh", false, "Ignore the cached prediction")
	full        = flag.Bool("full", false, "Print per-market confidences and factors")
	serve       = flag.Bool("serve", false, "Keep serving /metrics after the prediction until interrupted")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	app.SetupLogging(cfg.LogLevel)

	if *matchID == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start prediction engine")
	}
	defer a.Close()

	if cfg.MetricsAddr != "" {
		go a.ServeMetrics(ctx, cfg.MetricsAddr)
	}

	if *syncFixture {
		fixtureID, err := strconv.Atoi(*matchID)
		if err != nil {
			log.Fatal().Str("match", *matchID).Msg("-sync needs a numeric fixture id")
		}
		if _, err := a.SyncMatch(ctx, fixtureID); err != nil {
			log.Fatal().Err(err).Int("fixture_id", fixtureID).Msg("Failed to sync match")
		}
	}

	prediction, err := a.Engine.GetPrediction(ctx, *matchID, *refresh)
	if err != nil {
		log.Fatal().Err(err).Str("match_id", *matchID).Msg("Failed to generate prediction")
	}

	var out any = orchestrator.ToResponse(prediction)
	if *full {
		out = prediction
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("Failed to write prediction")
	}

	if *serve && cfg.MetricsAddr != "" {
		log.Info().Msg("Serving metrics, press Ctrl+C to exit")
		<-ctx.Done()
	}
}
