// Package export renders minutes as PDF documents and CSV listings.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"gijiroku/internal/store"
)

// PDF renders one record as a printable document.
func PDF(rec store.Record) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, "議事録", "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("タイトル: %s", rec.Title), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("会議日: %s", rec.MeetingDate), "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 10, fmt.Sprintf("参加者: %s", strings.Join(rec.Participants, ", ")), "", "L", false)

	sections := []struct {
		header string
		body   string
	}{
		{"会議の目的", rec.Purpose},
		{"決定事項", rec.Decisions},
		{"宿題", rec.ActionItems},
		{"議事要旨", rec.Digest},
	}
	for _, sec := range sections {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, sec.header, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		body := sec.body
		if body == "" {
			body = "(未入力)"
		}
		pdf.MultiCell(0, 8, body, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
