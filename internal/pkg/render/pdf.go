package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
)

const (
	pdfMargin     = 30.0
	pdfRowHeight  = 18.0
	pdfNameWidth  = 180.0
	pdfEmailWidth = 260.0
	pdfCellPad    = 4.0

	emptyList = "—"
	periodSep = "—"
	ellipsis  = "…"
)

func periodLine(w utils.WeekRange) string {
	return fmt.Sprintf("Period: %s %s %s", utils.FormatDay(w.Start), periodSep, utils.FormatDay(w.End))
}

// pageCursor tracks the vertical budget left on the current page.
type pageCursor struct {
	pdf    *gofpdf.Fpdf
	bottom float64
}

// ensure starts a new page unless lines more rows fit above the bottom margin.
func (c *pageCursor) ensure(lines int) {
	if c.pdf.GetY()+float64(lines)*pdfRowHeight > c.bottom {
		c.pdf.AddPage()
	}
}

type pdfLayout struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	cursor   *pageCursor
	headings []string
}

func newPDFLayout(r Report) *pdfLayout {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(r.Week.End)
	pdf.SetModificationDate(r.Week.End)
	pdf.SetTitle("Weekly Attendance Report", true)
	pdf.SetCreator("TimeNest", true)

	_, pageHeight := pdf.GetPageSize()
	return &pdfLayout{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		cursor: &pageCursor{pdf: pdf, bottom: pageHeight - pdfMargin},
	}
}

func (l *pdfLayout) line(style string, size float64, text string) {
	l.pdf.SetFont("Helvetica", style, size)
	l.pdf.CellFormat(0, pdfRowHeight, l.tr(text), "", 1, "L", false, 0, "")
}

// fit shortens s with an ellipsis until it fits width points.
func (l *pdfLayout) fit(s string, width float64) string {
	limit := width - pdfCellPad
	if l.pdf.GetStringWidth(l.tr(s)) <= limit {
		return l.tr(s)
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := l.tr(string(runes) + ellipsis)
		if l.pdf.GetStringWidth(candidate) <= limit {
			return candidate
		}
	}
	return l.tr(ellipsis)
}

func (l *pdfLayout) list(title string, people []employee.Employee) {
	l.cursor.ensure(2)
	l.line("B", 11, title)

	l.pdf.SetFont("Helvetica", "", 10)
	if len(people) == 0 {
		l.cursor.ensure(1)
		l.pdf.CellFormat(0, pdfRowHeight, l.tr(emptyList), "", 1, "L", false, 0, "")
		return
	}
	for _, p := range people {
		l.cursor.ensure(1)
		l.pdf.CellFormat(pdfNameWidth, pdfRowHeight, l.fit(p.Name, pdfNameWidth), "", 0, "L", false, 0, "")
		l.pdf.CellFormat(pdfEmailWidth, pdfRowHeight, l.fit(p.Email, pdfEmailWidth), "", 1, "L", false, 0, "")
	}
}

func (l *pdfLayout) divider() {
	l.cursor.ensure(1)
	pageWidth, _ := l.pdf.GetPageSize()
	y := l.pdf.GetY() + pdfRowHeight/2
	l.pdf.SetDrawColor(200, 200, 200)
	l.pdf.Line(pdfMargin, y, pageWidth-pdfMargin, y)
	l.pdf.Ln(pdfRowHeight)
}

func (l *pdfLayout) day(d report.DailyInsight) {
	heading := d.Day.Format("Monday, 2006-01-02")
	l.headings = append(l.headings, heading)

	l.cursor.ensure(3)
	l.line("B", 13, heading)
	l.line("", 11, fmt.Sprintf("Present: %d    Absent: %d", len(d.Present), len(d.Absent)))

	l.list("Present", d.Present)
	l.list("Absent", d.Absent)
}

func (l *pdfLayout) build(r Report) error {
	l.pdf.AddPage()
	l.line("B", 16, "Weekly Attendance Report")
	l.line("", 11, periodLine(r.Week))
	l.pdf.Ln(pdfRowHeight / 2)

	for i, d := range r.Days {
		l.day(d)
		if i < len(r.Days)-1 {
			l.divider()
		}
	}
	return l.pdf.Error()
}

// RenderPDF writes the paginated per-day present/absent layout.
func RenderPDF(w io.Writer, r Report) error {
	l := newPDFLayout(r)
	if err := l.build(r); err != nil {
		return fmt.Errorf("failed to lay out pdf: %w", err)
	}
	if err := l.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
