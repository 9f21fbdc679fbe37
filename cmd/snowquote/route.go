package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"snow-route-pricing/internal/api/dto"
	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/export"
	"snow-route-pricing/internal/services"
)

func newRouteCmd(opts *options) *cobra.Command {
	var file, exportPath string

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Price stops serviced by one shared fleet, in file order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var gen export.Generator
			if exportPath != "" {
				g, err := export.ForFormat(filepath.Ext(exportPath))
				if err != nil {
					return err
				}
				gen = g
			}

			var body dto.RouteRequest
			if err := readJSON(cmd, file, &body); err != nil {
				return err
			}
			if len(body.Stops) == 0 {
				return fmt.Errorf("route: no stops")
			}
			reqs := make([]domain.ServiceRequest, len(body.Stops))
			for i, s := range body.Stops {
				if err := checkTrigger(s); err != nil {
					return fmt.Errorf("stops[%d]: %w", i, err)
				}
				reqs[i] = s.ToDomain()
			}

			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer e.provider.Close()

			ctx := e.log.WithContext(cmd.Context())
			quote, err := services.PriceRoute(ctx, reqs, e.card, e.provider)
			if err != nil {
				return err
			}

			if gen != nil {
				data, err := gen.Generate(quote)
				if err != nil {
					return err
				}
				if err := os.WriteFile(exportPath, data, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", exportPath)
			}
			return printJSON(cmd, quote)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "route JSON file ({\"stops\": [...]}), - for stdin")
	cmd.Flags().StringVar(&exportPath, "export", "", "also write a quote sheet (.xlsx or .pdf)")
	return cmd
}
