package infra

// pdf.go — Discrepancy report export using go-pdf/fpdf.
// Renders an A4 summary sheet plus a table of the closures with the largest
// absolute discrepancies, for the admin to work through on paper.
// The output file is saved to storagePath/discrepancies_{start}_{end}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sushitlalpan/sushi-be/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateDiscrepancyPDF writes the report to storagePath (created if needed)
// and returns the absolute path of the generated file.
func GenerateDiscrepancyPDF(report *dto.DiscrepancyReport, startDate, endDate, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("discrepancies_%s_%s.pdf", startDate, endDate)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Sushi Tlalpan", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Reporte de discrepancias de cierre de caja", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Periodo: %s a %s", startDate, endDate), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Summary block ────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Resumen", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	summary := [][2]string{
		{"Cierres con discrepancia", fmt.Sprintf("%d", report.TotalDiscrepancies)},
		{"Discrepancia total (con signo)", report.TotalDiscrepancyAmount.StringFixed(2)},
		{"Mayor discrepancia absoluta", report.LargestDiscrepancy.StringFixed(2)},
		{"Discrepancia absoluta promedio", report.AverageDiscrepancy.StringFixed(2)},
	}
	for _, row := range summary {
		pdf.CellFormat(contentW*0.6, 5.5, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 5.5, row[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Records table ────────────────────────────────────────────────────────
	col := []float64{contentW * 0.14, contentW * 0.08, contentW * 0.22, contentW * 0.20, contentW * 0.18, contentW * 0.18}

	pdf.SetFont("Helvetica", "B", 8)
	headers := []string{"Fecha", "No.", "Sucursal", "Cajero", "Ventas", "Discrepancia"}
	aligns := []string{"L", "R", "L", "L", "R", "R"}
	for i, h := range headers {
		pdf.CellFormat(col[i], 6, h, "B", 0, aligns[i], false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, rec := range report.Records {
		cells := []string{
			rec.ClosureDate,
			fmt.Sprintf("%d", rec.ClosureNumber),
			rec.BranchName,
			rec.WorkerUsername,
			rec.SalesTotal.StringFixed(2),
			rec.Discrepancy.StringFixed(2),
		}
		for i, cell := range cells {
			pdf.CellFormat(col[i], 5.5, cell, "", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
