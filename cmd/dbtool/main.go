package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"snow-route-pricing/internal/config"
	"snow-route-pricing/internal/platform/db"
	"snow-route-pricing/internal/platform/obs"
)

// dbtool creates the cache schema and optionally prunes stale travel times.
func main() {
	pruneDays := flag.Int("prune-days", 0, "delete travel-time cache entries older than this many days (0 keeps all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		l := obs.NewLogger(os.Stderr, "", "dbtool")
		l.Fatal().Err(err).Msg("load config")
	}
	log := obs.NewLogger(os.Stdout, cfg.Environment, "dbtool")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, cfg.Cache.DatabaseURL, *pruneDays); err != nil {
		stop()
		log.Fatal().Err(err).Msg("dbtool failed")
	}
}

func run(ctx context.Context, log zerolog.Logger, databaseURL string, pruneDays int) error {
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info().Msg("initializing database schema")
	if err := db.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Info().Msg("schema ready")

	if pruneDays > 0 {
		n, err := db.PruneCaches(ctx, conn, pruneDays)
		if err != nil {
			return err
		}
		log.Info().Int64("rows", n).Int("older_than_days", pruneDays).Msg("pruned travel time cache")
	}
	return nil
}
