package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"mytasks/internal/task"
	"mytasks/internal/view"
)

// Data is everything one report page set needs.
type Data struct {
	Tasks       []task.Task
	Stats       view.Stats
	Today       task.Date
	Filter      task.FilterMode
	Query       string
	GeneratedAt time.Time
}

// Generator renders task lists to PDF. Without FontPath the core
// Helvetica font is used and text outside cp1252 is dropped.
type Generator struct {
	FontPath string
	fontName string
}

func NewGenerator(fontPath string) *Generator {
	return &Generator{FontPath: fontPath}
}

func (g *Generator) WriteFile(path string, data Data) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Write(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (g *Generator) Write(w io.Writer, data Data) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tasks "+data.Today.String(), true)
	pdf.SetAuthor("mytasks", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	tr := g.setupFont(pdf)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "Tasks", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	sub := fmt.Sprintf("Generated %s  |  filter: %s", data.GeneratedAt.Format("2006-01-02 15:04"), data.Filter)
	if data.Query != "" {
		sub += fmt.Sprintf("  |  search: %q", data.Query)
	}
	pdf.CellFormat(0, 6, tr(sub), "", 1, "C", false, 0, "")
	g.hr(pdf)

	s := data.Stats
	g.kvLine(pdf, "Total", fmt.Sprintf("%d", s.Total))
	g.kvLine(pdf, "Not started", fmt.Sprintf("%d", s.NotStarted))
	g.kvLine(pdf, "In progress", fmt.Sprintf("%d", s.InProgress))
	g.kvLine(pdf, "Done", fmt.Sprintf("%d (%d%%)", s.Done, s.Completion))
	g.kvLine(pdf, "Overdue", fmt.Sprintf("%d", s.Overdue))
	g.hr(pdf)

	if len(data.Tasks) == 0 {
		pdf.SetFont(g.fontName, "", 11)
		pdf.CellFormat(0, 8, view.EmptyState, "", 1, "L", false, 0, "")
	}
	for _, bucket := range view.Group(data.Tasks) {
		g.sectionTitle(pdf, tr(view.DateLabel(bucket.Date, data.Today)+"  ("+bucket.Date.String()+")"))
		for _, t := range bucket.Tasks {
			g.taskLine(pdf, tr, t, data.Today)
		}
		pdf.Ln(2)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func (g *Generator) setupFont(pdf *gofpdf.Fpdf) func(string) string {
	if g.FontPath != "" {
		g.fontName = "Report"
		pdf.AddUTF8Font(g.fontName, "", g.FontPath)
		pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
		pdf.AddUTF8Font(g.fontName, "I", g.FontPath)
		return func(s string) string { return s }
	}
	g.fontName = "Helvetica"
	return pdf.UnicodeTranslatorFromDescriptor("")
}

func (g *Generator) taskLine(pdf *gofpdf.Fpdf, tr func(string) string, t task.Task, today task.Date) {
	meta := []string{t.Priority.String(), t.Status.Label()}
	if c := t.Category.String(); c != "" {
		meta = append(meta, c)
	}
	if !t.EndDate.IsZero() {
		due := "due " + t.EndDate.String()
		if t.IsOverdue(today) {
			due += " OVERDUE"
		}
		meta = append(meta, due)
	}
	if t.CompletedAt != nil {
		meta = append(meta, "completed "+t.CompletedAt.Local().Format("2006-01-02"))
	}

	pdf.SetFont(g.fontName, "B", 11)
	if t.IsOverdue(today) {
		pdf.SetTextColor(200, 30, 30)
	}
	pdf.MultiCell(0, 6, tr(t.Title), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(g.fontName, "", 9)
	pdf.MultiCell(0, 5, tr("["+strings.Join(meta, " | ")+"]"), "", "L", false)
	if note := strings.TrimSpace(t.Note); note != "" {
		pdf.SetFont(g.fontName, "I", 9)
		pdf.MultiCell(0, 5, tr(note), "", "L", false)
	}
	pdf.Ln(1)
}

func (g *Generator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 13)
	pdf.CellFormat(0, 8, s, "", 1, "L", false, 0, "")
}

func (g *Generator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(35, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *Generator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 3)
}
