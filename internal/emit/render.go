// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/petli/payson2pdf/pkg/types"
)

const (
	pageMargin  = 20.0
	labelWidth  = 50.0
	rowHeight   = 7.0
	notesHeight = 5.0
	creator     = "payson2pdf"
)

// Render draws a layout onto a single A4 page and returns the PDF bytes.
// Output depends only on the layout: the document dates are pinned to the
// layout's date and the catalog is written in sorted order, so rendering
// the same layout twice yields identical bytes.
func Render(l types.Layout) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(l.Date)
	pdf.SetModificationDate(l.Date)
	pdf.SetCreator(creator, false)
	pdf.SetTitle(l.Title, true)
	pdf.SetSubject(l.Subtitle, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)

	// Core fonts are cp1252; translate so Swedish characters survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, tr(l.Title), "", 1, "L", false, 0, "")
	if l.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(contentW, 7, tr(l.Subtitle), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(3)
	pdf.SetDrawColor(160, 160, 160)
	pdf.Line(pageMargin, pdf.GetY(), pageW-pageMargin, pdf.GetY())
	pdf.Ln(5)

	for _, line := range l.Lines {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelWidth, rowHeight, tr(line.Label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW-labelWidth, rowHeight, tr(line.Value), "", 1, "L", false, 0, "")
	}

	if l.Notes != "" {
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, rowHeight, tr(l.NotesLabel), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentW, notesHeight, tr(l.Notes), "", "L", false)
	}

	if l.Footer != "" {
		pdf.SetY(pageH - pageMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(contentW, 5, tr(l.Footer), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF for %q: %w", l.TransactionID, err)
	}
	return buf.Bytes(), nil
}
