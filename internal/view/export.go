package view

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"feline-finder/internal/data/entity"

	"github.com/phpdave11/gofpdf"
)

// ExportColumns is the fixed column order of every export.
var ExportColumns = []string{"Adopter", "Cat", "Start", "End", "Volunteer", "Status"}

// exportRow renders one booking; times are shown in the zone they were booked in.
func exportRow(b entity.Booking) []string {
	return []string{
		b.Adopter.Name,
		b.Cat.Name,
		inZone(b.StartTime, b.StartTZ).Format(time.RFC3339),
		inZone(b.EndTime, b.EndTZ).Format(time.RFC3339),
		b.Volunteer.Name,
		string(b.Status),
	}
}

func inZone(t time.Time, tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return t
	}
	return t.In(loc)
}

// WriteCSV writes a header row and one row per booking in the order given.
func WriteCSV(w io.Writer, bookings []entity.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, b := range bookings {
		if err := cw.Write(exportRow(b)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePDF renders the same rows as WriteCSV into a landscape table.
func WritePDF(w io.Writer, title string, bookings []entity.Booking) error {
	return buildPDF(title, bookings).Output(w)
}

// buildPDF lays out the table. The core fonts are cp1252, so every string goes through
// the translator after truncation; each rune maps to a single byte.
func buildPDF(title string, bookings []entity.Booking) *gofpdf.Fpdf {
	widths := []float64{50, 40, 48, 48, 45, 46}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d bookings", time.Now().UTC().Format("2006-01-02 15:04 MST"), len(bookings)))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range ExportColumns {
		pdf.CellFormat(widths[i], 8, col, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, b := range bookings {
		for i, cell := range exportRow(b) {
			pdf.CellFormat(widths[i], 7, tr(truncate(cell, 32)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(bookings) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 8, "No bookings match the current filters.")
	}

	return pdf
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "~"
}
