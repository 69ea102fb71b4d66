package receipt

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
	fontFamily = "receipt"
)

var itemWidths = [5]float64{10, 90, 25, 27.5, 27.5}

//go:embed fonts/DejaVuSansCondensed.ttf
var defaultRegular []byte

//go:embed fonts/DejaVuSansCondensed-Bold.ttf
var defaultBold []byte

// Renderer draws receipts with fpdf in a UTF-8 TrueType font. DejaVu Sans Condensed is built in;
// a font file passed to NewRenderer replaces it for both weights.
type Renderer struct {
	regular []byte
	bold    []byte
}

func NewRenderer(fontPath string) (*Renderer, error) {
	if strings.TrimSpace(fontPath) == "" {
		return &Renderer{regular: defaultRegular, bold: defaultBold}, nil
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read receipt font: %w", err)
	}
	return &Renderer{regular: font, bold: font}, nil
}

func (r *Renderer) Render(rc Receipt) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddUTF8FontFromBytes(fontFamily, "", r.regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", r.bold)
	pdf.SetTitle(rc.Header.Subtitle, true)
	pdf.AddPage()

	d := &drawer{pdf: pdf}
	d.header(rc.Header)
	d.section(rc.Customer)
	d.items(rc.Items)
	d.section(rc.Summary)
	d.footer(rc.Footer)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write receipt: %w", err)
	}
	return buf.Bytes(), nil
}

type drawer struct {
	pdf *fpdf.Fpdf
}

func (d *drawer) width() float64 {
	w, _ := d.pdf.GetPageSize()
	return w - 2*pageMargin
}

func (d *drawer) font(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
}

func (d *drawer) header(h Header) {
	d.font("B", 16)
	d.pdf.CellFormat(d.width(), 9, h.Title, "", 1, "C", false, 0, "")
	d.font("B", 11)
	d.pdf.CellFormat(d.width(), lineHeight, h.Subtitle, "", 1, "C", false, 0, "")
	d.pdf.Ln(2)
	d.lines(h.Lines)
	d.rule()
}

func (d *drawer) section(s Section) {
	if len(s.Lines) == 0 {
		return
	}
	d.title(s.Title)
	d.lines(s.Lines)
	d.pdf.Ln(2)
}

func (d *drawer) title(t string) {
	d.font("B", 12)
	d.pdf.SetFillColor(230, 230, 230)
	d.pdf.CellFormat(d.width(), 7, t, "", 1, "L", true, 0, "")
	d.pdf.Ln(1)
}

func (d *drawer) lines(lines []Line) {
	labelW := d.width() * 0.45
	for _, l := range lines {
		style := ""
		if l.Bold {
			style = "B"
		}
		d.font(style, 10)
		d.pdf.CellFormat(labelW, lineHeight, l.Label+":", "", 0, "L", false, 0, "")
		d.pdf.CellFormat(d.width()-labelW, lineHeight, l.Value, "", 1, "R", false, 0, "")
	}
}

func (d *drawer) items(it Items) {
	d.title(it.Title)

	d.font("B", 9)
	d.pdf.SetFillColor(245, 245, 245)
	for i, col := range it.Columns {
		d.pdf.CellFormat(itemWidths[i], 7, col, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	for _, row := range it.Rows {
		d.font("", 9)
		cells := [5]string{row.No, row.Name, row.Quantity, row.UnitPrice, row.Total}
		aligns := [5]string{"C", "L", "C", "R", "R"}
		for i, v := range cells {
			d.pdf.CellFormat(itemWidths[i], lineHeight, v, "1", 0, aligns[i], false, 0, "")
		}
		d.pdf.Ln(-1)
		if row.Details != "" {
			d.font("", 8)
			d.pdf.CellFormat(itemWidths[0], 5, "", "", 0, "", false, 0, "")
			d.pdf.MultiCell(d.width()-itemWidths[0], 5, row.Details, "", "L", false)
		}
	}
	d.pdf.Ln(3)
}

func (d *drawer) footer(f Footer) {
	d.rule()
	d.lines(f.Lines)
	d.pdf.Ln(4)
	d.font("B", 11)
	d.pdf.CellFormat(d.width(), 7, f.ThankYou, "", 1, "C", false, 0, "")
}

func (d *drawer) rule() {
	y := d.pdf.GetY() + 1
	d.pdf.Line(pageMargin, y, pageMargin+d.width(), y)
	d.pdf.Ln(3)
}
