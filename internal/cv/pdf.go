package cv

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// documentDate is stamped as creation and modification date so identical
// documents produce identical bytes.
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// WritePDF draws doc on A4 pages.
func WritePDF(w io.Writer, doc *Document) error {
	return writePDF(w, doc, true)
}

func writePDF(w io.Writer, doc *Document, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(compress)
	pdf.SetAutoPageBreak(false, Margin)
	pdf.SetMargins(Margin, Margin, Margin)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.FileName, true)

	for page := 1; page <= doc.Pages; page++ {
		pdf.AddPage()
		for _, l := range doc.Lines() {
			if l.Page != page {
				continue
			}
			style := ""
			if l.Bold {
				style = "B"
			}
			pdf.SetFont(fontFamily, style, l.Size)
			pdf.Text(l.X, l.Y, tr(l.Text))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write cv pdf: %w", err)
	}
	return nil
}

// PDF renders doc into memory.
func PDF(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
