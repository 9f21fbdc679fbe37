package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"snow-route-pricing/internal/domain"
)

const (
	summarySheet = "Summary"
	stopsSheet   = "Stops"
	legsSheet    = "Travel"
)

type ExcelGenerator struct {
	crewSize int
}

func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{crewSize: domain.DefaultRateCard().Season.ShovelCrewSize}
}

func (g *ExcelGenerator) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (g *ExcelGenerator) Extension() string { return "xlsx" }

func (g *ExcelGenerator) Generate(q *domain.RouteQuote) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("excel export: quote is nil")
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("excel export: %w", err)
	}
	for _, name := range []string{stopsSheet, legsSheet} {
		if _, err := file.NewSheet(name); err != nil {
			return nil, fmt.Errorf("excel export: new sheet %s: %w", name, err)
		}
	}

	g.writeSummary(file, q)
	g.writeStops(file, q)
	g.writeLegs(file, q)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel export: write: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeSummary(file *excelize.File, q *domain.RouteQuote) {
	set := func(cell string, value any) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Stops")
	set("B1", len(q.Stops))
	set("A2", "Fleet")
	set("B2", fleetSummary(q.Fleet, g.crewSize))
	set("A3", "Fleet hourly rate")
	set("B3", q.FleetHourlyRate)
	set("A4", "On-site hours")
	set("B4", q.TotalOnSiteHours)
	set("A5", "Travel hours")
	set("B5", q.TotalTravelHours)
	set("A6", "Route cost per event")
	set("B6", q.TotalRouteCost)

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 70)
}

func (g *ExcelGenerator) writeStops(file *excelize.File, q *domain.RouteQuote) {
	headers := []string{
		"Stop", "Address", "On-site hours", "Share",
		"Clearing cost", "Hauling cost", "Salting cost",
		"Per event", "Monthly", "Seasonal",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(stopsSheet, cell, h)
	}

	var perEvent, monthly, seasonal float64
	for i, s := range q.Stops {
		row := i + 2
		values := []any{
			s.ID, s.Address, s.OnSiteHours, s.Share,
			s.Clearing.Cost, s.Hauling.Cost, s.Salting.Cost,
			s.Totals.PerEventPrice, s.Totals.MonthlyPrice, s.Totals.SeasonalPrice,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = file.SetCellValue(stopsSheet, cell, v)
		}
		perEvent += s.Totals.PerEventPrice
		monthly += s.Totals.MonthlyPrice
		seasonal += s.Totals.SeasonalPrice
	}

	total := len(q.Stops) + 2
	_ = file.SetCellValue(stopsSheet, fmt.Sprintf("A%d", total), "Total")
	_ = file.SetCellValue(stopsSheet, fmt.Sprintf("H%d", total), perEvent)
	_ = file.SetCellValue(stopsSheet, fmt.Sprintf("I%d", total), monthly)
	_ = file.SetCellValue(stopsSheet, fmt.Sprintf("J%d", total), seasonal)

	_ = file.SetColWidth(stopsSheet, "A", "A", 14)
	_ = file.SetColWidth(stopsSheet, "B", "B", 40)
	_ = file.SetColWidth(stopsSheet, "C", "J", 14)
}

func (g *ExcelGenerator) writeLegs(file *excelize.File, q *domain.RouteQuote) {
	_ = file.SetCellValue(legsSheet, "A1", "From")
	_ = file.SetCellValue(legsSheet, "B1", "To")
	_ = file.SetCellValue(legsSheet, "C1", "Hours")
	for i, l := range q.Legs {
		row := i + 2
		_ = file.SetCellValue(legsSheet, fmt.Sprintf("A%d", row), l.From)
		_ = file.SetCellValue(legsSheet, fmt.Sprintf("B%d", row), l.To)
		_ = file.SetCellValue(legsSheet, fmt.Sprintf("C%d", row), l.Hours)
	}
	_ = file.SetColWidth(legsSheet, "A", "B", 40)
}
