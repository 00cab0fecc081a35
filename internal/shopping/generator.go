package shopping

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/plateful/server/internal/mealpreps"
)

// Generator renders shopping lists as PDF or CSV.
type Generator struct{}

// NewGenerator creates a new shopping list generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the aggregated lines of a plan in the given format.
func (g *Generator) Generate(format, planName string, lines []mealpreps.ShoppingLine) ([]byte, error) {
	switch format {
	case FormatPDF:
		return g.generatePDF(planName, lines)
	case FormatCSV:
		return g.generateCSV(lines)
	default:
		return nil, ErrInvalidFormat
	}
}

// generateCSV writes one row per aggregated ingredient line.
func (g *Generator) generateCSV(lines []mealpreps.ShoppingLine) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "quantity", "unit"}); err != nil {
		return nil, err
	}

	for _, line := range lines {
		row := []string{line.Name, formatQuantity(line.Quantity), line.Unit}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// generatePDF renders a one-page-or-more table of ingredient lines.
func (g *Generator) generatePDF(planName string, lines []mealpreps.ShoppingLine) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "Shopping List")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Plan: %s", planName))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Items: %d", len(lines)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 7, "Ingredient", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Quantity", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 7, "Unit", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		pdf.CellFormat(90, 7, line.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, formatQuantity(line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, line.Unit, "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// formatQuantity drops the trailing zero on whole quantities ("7", "0.7").
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
