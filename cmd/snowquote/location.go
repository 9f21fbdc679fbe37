package main

import (
	"github.com/spf13/cobra"

	"snow-route-pricing/internal/api/dto"
	"snow-route-pricing/internal/services"
)

func newLocationCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "location",
		Short: "Price a single property with minimum floors applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var body dto.LocationRequest
			if err := readJSON(cmd, file, &body); err != nil {
				return err
			}
			if err := checkTrigger(body); err != nil {
				return err
			}

			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer e.provider.Close()

			ctx := e.log.WithContext(cmd.Context())
			req := services.ResolveRoundTrip(ctx, body.ToDomain(), e.provider)
			res := services.PriceSingleLocation(req, e.card)

			return printJSON(cmd, dto.LocationResponse{
				ID:              req.ID,
				Address:         req.Address,
				AggregateResult: res,
				RoundTripHours:  req.Hauling.RoundTripHours,
				Shovelers:       res.Clearing.Equipment.Shovelers(e.card.Season.ShovelCrewSize),
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "request JSON file, - for stdin")
	return cmd
}
