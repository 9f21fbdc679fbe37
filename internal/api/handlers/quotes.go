package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"snow-route-pricing/internal/api/dto"
	"snow-route-pricing/internal/domain"
	"snow-route-pricing/internal/export"
	"snow-route-pricing/internal/ports"
	"snow-route-pricing/internal/services"
)

const maxRouteStops = 50

type QuoteHandler struct {
	RateCard domain.RateCard
	Provider ports.TravelTimeProvider
}

// Location prices a single property on its own, with minimum floors applied.
func (h *QuoteHandler) Location(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var body dto.LocationRequest
	if err := decodeJSON(r, &body); err != nil {
		writeServiceError(w, r, err)
		return
	}
	req := body.ToDomain()
	if err := validateRequest(req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	req = services.ResolveRoundTrip(r.Context(), req, h.Provider)
	res := services.PriceSingleLocation(req, h.RateCard)

	writeJSON(w, r, http.StatusOK, dto.LocationResponse{
		ID:              req.ID,
		Address:         req.Address,
		AggregateResult: res,
		RoundTripHours:  req.Hauling.RoundTripHours,
		Shovelers:       res.Clearing.Equipment.Shovelers(h.RateCard.Season.ShovelCrewSize),
	})
}

// Route prices stops serviced by one shared fleet, in the order given.
func (h *QuoteHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	quote, err := h.priceRoute(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, quote)
}

// Export prices a route and returns it as a quote sheet (?format=xlsx|pdf).
func (h *QuoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	gen, err := export.ForFormat(format)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "format must be xlsx or pdf")
		return
	}

	quote, err := h.priceRoute(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data, err := gen.Generate(quote)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("export route quote: %w", err))
		return
	}

	w.Header().Set("Content-Type", gen.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="route-quote.%s"`, gen.Extension()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *QuoteHandler) priceRoute(r *http.Request) (*domain.RouteQuote, error) {
	var body dto.RouteRequest
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}

	if len(body.Stops) == 0 || len(body.Stops) > maxRouteStops {
		return nil, badRequest("stops must contain between 1 and %d entries", maxRouteStops)
	}

	reqs := make([]domain.ServiceRequest, 0, len(body.Stops))
	seen := make(map[string]struct{}, len(body.Stops))
	for i, s := range body.Stops {
		req := s.ToDomain()
		req.ID = strings.TrimSpace(req.ID)
		if req.ID == "" {
			return nil, badRequest("stops[%d]: id is required", i)
		}
		if _, dup := seen[req.ID]; dup {
			return nil, badRequest("stops[%d]: duplicate id %q", i, req.ID)
		}
		seen[req.ID] = struct{}{}

		if err := validateRequest(req); err != nil {
			return nil, fmt.Errorf("stops[%d]: %w", i, err)
		}
		reqs = append(reqs, req)
	}

	quote, err := services.PriceRoute(r.Context(), reqs, h.RateCard, h.Provider)
	if err != nil {
		return nil, fmt.Errorf("price route: %w", err)
	}
	return quote, nil
}

// validateRequest rejects input the engine would silently coalesce but a
// caller almost certainly got wrong.
func validateRequest(req domain.ServiceRequest) error {
	if req.ClearingTrigger != "" && !req.ClearingTrigger.Valid() {
		return badRequest("clearing_trigger must be one of 5cm, 3cm, 2cm")
	}

	numbers := map[string]float64{
		"clearing.loader_area_sqft":     req.Clearing.LoaderArea,
		"clearing.skid_steer_area_sqft": req.Clearing.SkidSteerArea,
		"clearing.shovel_area_sqft":     req.Clearing.ShovelArea,
		"hauling.load_time_minutes":     req.Hauling.Crew.LoadTimeMinutes,
		"hauling.unload_time_minutes":   req.Hauling.Crew.UnloadTimeMinutes,
		"hauling.round_trip_hours":      req.Hauling.RoundTripHours,
		"target_hours":                  req.TargetHours,
	}
	for name, v := range numbers {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return badRequest("%s must be a non-negative number", name)
		}
	}

	ints := map[string]int{
		"hauling.loaders":           req.Hauling.Crew.Loaders,
		"hauling.trucks":            req.Hauling.Crew.Trucks,
		"hauling_interval":          req.HaulingInterval,
		"contract_duration_months":  req.ContractDurationMonths,
		"included_events_per_month": req.IncludedEventsPerMonth,
	}
	for name, v := range ints {
		if v < 0 {
			return badRequest("%s must not be negative", name)
		}
	}
	return nil
}
