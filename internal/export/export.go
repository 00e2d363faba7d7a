// Package export renders the task list as read-only reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nibzard/todolist-go/internal/todo"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
)

var header = []string{"Task", "Due Date", "Priority", "Status"}

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatMarkdown, FormatPDF}
}

// ParseFormat parses a format name. "markdown" is accepted for md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected csv|md|pdf)", s)
	}
}

// Export writes tasks to w in the given format.
func Export(w io.Writer, format Format, tasks []todo.Task) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, tasks)
	case FormatMarkdown:
		return writeMarkdown(w, tasks)
	case FormatPDF:
		return writePDF(w, tasks)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func row(t todo.Task) []string {
	return []string{t.Name, t.DueDate, string(t.Priority), string(t.Status())}
}

func writeCSV(w io.Writer, tasks []todo.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := cw.Write(row(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\n", " ", "\r", "")

func writeMarkdown(w io.Writer, tasks []todo.Task) error {
	var b strings.Builder
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, t := range tasks {
		cells := row(t)
		for i, c := range cells {
			cells[i] = markdownEscaper.Replace(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var pdfWidths = []float64{90, 40, 25, 25}

func writePDF(w io.Writer, tasks []todo.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "To-Do List")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		for i, c := range row(t) {
			pdf.CellFormat(pdfWidths[i], 6, fitCell(pdf, tr, c, pdfWidths[i]-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 8, "No tasks.")
	}
	return pdf.Output(w)
}

// fitCell translates the UTF-8 text s for the core font, truncating it
// with an ellipsis so it fits width. Truncation works on runes before
// translation, since the translated bytes are not UTF-8.
func fitCell(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if out := tr(s); pdf.GetStringWidth(out) <= width {
		return out
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(tr(string(r)+"...")) > width {
		r = r[:len(r)-1]
	}
	return tr(string(r) + "...")
}
