package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"snow-route-pricing/internal/api/dto"
	"snow-route-pricing/internal/app"
	"snow-route-pricing/internal/config"
	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/platform/obs"
)

type options struct {
	rateCardPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "snowquote",
		Short:         "Price seasonal snow service for one property or a route",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.rateCardPath, "rate-card", "", "rate card file (yaml or json); overrides RATE_CARD_PATH")

	root.AddCommand(newLocationCmd(opts), newRouteCmd(opts))
	return root
}

// env is what every subcommand needs: config, card, logger and a provider.
type env struct {
	card     domain.RateCard
	log      zerolog.Logger
	provider *app.Provider
}

func setup(cmd *cobra.Command, opts *options) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.rateCardPath != "" {
		cfg.RateCardPath = opts.rateCardPath
	}

	log := obs.NewLogger(cmd.ErrOrStderr(), cfg.Environment, "snowquote").Level(zerolog.WarnLevel)

	card, err := config.LoadRateCard(cfg.RateCardPath)
	if err != nil {
		return nil, err
	}

	ctx := log.WithContext(cmd.Context())
	provider, err := app.NewProvider(ctx, cfg, log, nil)
	if err != nil {
		return nil, err
	}
	return &env{card: card, log: log, provider: provider}, nil
}

// readJSON decodes exactly one object from path, or stdin when path is "-".
func readJSON(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("read input %s: %w", path, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("read input %s: must contain only one JSON object", path)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkTrigger(req dto.LocationRequest) error {
	if t := domain.ClearingTrigger(req.ClearingTrigger); t != "" && !t.Valid() {
		return fmt.Errorf("clearing_trigger %q: must be one of 5cm, 3cm, 2cm", req.ClearingTrigger)
	}
	return nil
}
