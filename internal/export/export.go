package export

import (
	"fmt"
	"strings"

	"snow-route-pricing/internal/domain"
)

// Generator renders a priced route as a downloadable quote sheet.
type Generator interface {
	Generate(q *domain.RouteQuote) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the generator for "xlsx" or "pdf".
func ForFormat(format string) (Generator, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "xlsx", "excel":
		return NewExcelGenerator(), nil
	case "pdf":
		return NewPDFGenerator(), nil
	default:
		return nil, fmt.Errorf("export: unsupported format %q", format)
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func hours(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func stopLabel(s domain.RouteStopResult) string {
	if s.Address == "" {
		return s.ID
	}
	return s.ID + " - " + s.Address
}

func fleetSummary(e domain.Equipment, crewSize int) string {
	return fmt.Sprintf(
		"%d loaders, %d skid steers, %d shovel crews (%d people), %d trucks, %d salting trucks",
		e.Loaders, e.SkidSteers, e.ShovelCrews, e.Shovelers(crewSize), e.Trucks, e.SaltingTrucks,
	)
}
