package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// pageMargin leaves room on A4 portrait for the fixed report frame.
const pageMargin = 15.0

// PDFFileName derives a download filename from the project name, with
// whitespace replaced by underscores.
func PDFFileName(prefix string, projectName string) string {
	name := strings.Join(strings.Fields(projectName), "_")
	if name == "" {
		name = "Untitled_Project"
	}
	return fmt.Sprintf("%s_%s.pdf", prefix, name)
}

// ExportPDF renders the coverage report layout into a PDF document.
// Errors are returned, never panicked; a failed export must not take
// down the caller.
func (v CoverageView) ExportPDF(w io.Writer) error {
	pdf := newReportPDF()

	writeHeader(pdf, v.ProjectName, fmt.Sprintf("Executive Verdict: %s", v.Recommendation))
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, fmt.Sprintf("Official Report ID: %s    %s", v.ReportID, v.Date), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	writeStatRow(pdf, []stat{
		{"Creative Score", v.Score},
		{"Lead Writer", v.Writer},
		{"Character Count", v.CharacterCount},
		{"Primary Tone", v.Tone},
	})

	writeSection(pdf, "1.0 Executive Analysis Summary & Synopsis", v.Analysis)
	writeSection(pdf, "2.0 Narrative Structure", fmt.Sprintf("%q", v.Logline))

	if len(v.Characters) > 0 {
		writeSectionTitle(pdf, "Principal Character Breakdown")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		for _, c := range v.Characters {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.MultiCell(0, 5, c.Name, "", "L", false)
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 4.5, c.Description, "", "L", false)
			pdf.Ln(2)
		}
	}

	writeSection(pdf, "3.0 Strategic Intelligence", v.Comments)
	writeFooter(pdf)

	return finish(pdf, w)
}

// ExportPDF renders the estimator report layout into a PDF document.
func (v EstimatorView) ExportPDF(w io.Writer) error {
	pdf := newReportPDF()

	writeHeader(pdf, v.ProjectName, fmt.Sprintf("VERDICT: %s", v.Verdict))

	writeStatRow(pdf, []stat{
		{"Success Probability", v.Score},
	})

	writeSectionTitle(pdf, "Market Comps")
	pdf.SetTextColor(0, 0, 0)
	if len(v.Comps) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, placeholderComps, "", "L", false)
	}
	for _, comp := range v.Comps {
		pdf.SetFont("Helvetica", "B", 10)
		title := comp.Title
		if title == "" {
			title = "Unknown Movie"
		}
		boxOffice := comp.BoxOffice
		if boxOffice == "" {
			boxOffice = "N/A"
		}
		pdf.CellFormat(130, 5, title, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, boxOffice, "", 1, "R", false, 0, "")
		if comp.Notes != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(96, 96, 96)
			pdf.MultiCell(0, 4.5, comp.Notes, "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(2)
	}
	pdf.Ln(3)

	writeSection(pdf, "Executive Analysis", v.Summary)
	writeSection(pdf, "Strategic Recommendations", v.Recommendations)
	writeFooter(pdf)

	return finish(pdf, w)
}

type stat struct {
	label string
	value string
}

func newReportPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	return pdf
}

func writeHeader(pdf *fpdf.Fpdf, projectName string, badge string) {
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, strings.ToUpper(projectName), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetDrawColor(0, 0, 0)
	pdf.CellFormat(0, 8, badge, "1", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writeStatRow(pdf *fpdf.Fpdf, stats []stat) {
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pageMargin
	cell := usable / float64(len(stats))

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	for _, s := range stats {
		pdf.CellFormat(cell, 5, strings.ToUpper(s.label), "", 0, "C", false, 0, "")
	}
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	for _, s := range stats {
		pdf.CellFormat(cell, 9, s.value, "", 0, "C", false, 0, "")
	}
	pdf.Ln(14)
}

func writeSectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(64, 64, 64)
	pdf.CellFormat(0, 6, strings.ToUpper(title), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func writeSection(pdf *fpdf.Fpdf, title string, body string) {
	writeSectionTitle(pdf, title)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 5, body, "", "L", false)
	pdf.Ln(5)
}

func writeFooter(pdf *fpdf.Fpdf) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(160, 160, 160)
	pdf.CellFormat(0, 4, "Verdict Creative Intelligence - Private & Confidential - Official Document", "T", 1, "C", false, 0, "")
}

func finish(pdf *fpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return nil
}
