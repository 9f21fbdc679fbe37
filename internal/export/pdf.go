package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"snow-route-pricing/internal/domain"
)

const pdfFont = "Helvetica"

type PDFGenerator struct {
	crewSize int
}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{crewSize: domain.DefaultRateCard().Season.ShovelCrewSize}
}

func (g *PDFGenerator) ContentType() string { return "application/pdf" }

func (g *PDFGenerator) Extension() string { return "pdf" }

func (g *PDFGenerator) Generate(q *domain.RouteQuote) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("pdf export: quote is nil")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	// Core fonts are cp1252; translate so accented street names survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 14)
	pdf.CellFormat(0, 10, "Snow service route quote", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(pdfFont, "", 10)
	lines := []string{
		"Fleet: " + fleetSummary(q.Fleet, g.crewSize),
		"Fleet hourly rate: " + money(q.FleetHourlyRate),
		fmt.Sprintf("On-site hours: %s   Travel hours: %s", hours(q.TotalOnSiteHours), hours(q.TotalTravelHours)),
		"Route cost per event: " + money(q.TotalRouteCost),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(4)

	headers := []string{"Stop", "Hours", "Share", "Per event", "Monthly", "Seasonal"}
	widths := []float64{112, 25, 25, 35, 35, 35}
	drawRow(pdf, headers, widths, true)

	var perEvent, monthly, seasonal float64
	for _, s := range q.Stops {
		drawRow(pdf, []string{
			tr(stopLabel(s)),
			hours(s.OnSiteHours),
			fmt.Sprintf("%.1f%%", s.Share*100),
			money(s.Totals.PerEventPrice),
			money(s.Totals.MonthlyPrice),
			money(s.Totals.SeasonalPrice),
		}, widths, false)
		perEvent += s.Totals.PerEventPrice
		monthly += s.Totals.MonthlyPrice
		seasonal += s.Totals.SeasonalPrice
	}
	drawRow(pdf, []string{"Total", "", "", money(perEvent), money(monthly), money(seasonal)}, widths, true)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf export: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf export: output: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont(pdfFont, style, 9)
	for i, col := range cols {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
