// Package cv renders an employee record into a fixed-layout curriculum
// vitae. The on-screen preview and the PDF export are both derived from the
// same Document, so they always show the same fields.
package cv

import (
	"fmt"
	"strings"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
)

// Layout in millimetres on an A4 portrait page.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 15.0

	TitleSize   = 24.0
	HeadingSize = 16.0
	BodySize    = 14.0

	lineStep       = 10.0
	titleY         = Margin + 10
	contactY       = Margin + 20
	employmentY    = Margin + 70
	employmentRowY = Margin + 80
	historyY       = Margin + 140
	historyRowY    = Margin + 150
	lastLineY      = PageHeight - Margin
)

const (
	SectionHeader     = "header"
	SectionContact    = "contact"
	SectionEmployment = "employment"
	SectionHistory    = "history"
)

// Line is one text run. Page is 1-based.
type Line struct {
	Text string  `json:"text"`
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
	Bold bool    `json:"bold"`
}

type Section struct {
	Name  string `json:"name"`
	Lines []Line `json:"lines"`
}

// Summary is the short card shown above the preview.
type Summary struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

type Document struct {
	EmployeeID    string    `json:"employeeId"`
	FileName      string    `json:"fileName"`
	Title         string    `json:"title"`
	PreviewTitle  string    `json:"previewTitle"`
	DownloadLabel string    `json:"downloadLabel"`
	Locale        string    `json:"locale"`
	Summary       Summary   `json:"summary"`
	Sections      []Section `json:"sections"`
	Pages         int       `json:"pages"`
}

// Render lays out e. A nil employee renders every field as the placeholder.
// The result depends only on its inputs.
func Render(e *employee.Employee, id string, msgs *i18n.Messages) *Document {
	if e == nil {
		e = &employee.Employee{}
	}
	if msgs == nil {
		msgs = i18n.MustFor(i18n.LocaleEnglish)
	}

	placeholder := msgs.Get(i18n.CVPlaceholder)
	or := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return placeholder
		}
		return v
	}
	field := func(label i18n.Key, v string) string {
		return fmt.Sprintf("%s: %s", msgs.Get(label), or(v))
	}

	status := msgs.Get(i18n.CVStatusActive)
	if e.IsTerminated {
		status = msgs.Get(i18n.CVStatusTerminated)
	}
	name := or(e.FullName())

	doc := &Document{
		EmployeeID:    id,
		FileName:      FileName(e, id),
		Title:         msgs.Get(i18n.CVTitle),
		PreviewTitle:  msgs.Get(i18n.CVPreviewTitle),
		DownloadLabel: msgs.Get(i18n.CVDownload),
		Locale:        msgs.Locale(),
		Summary: Summary{
			Name:       name,
			Position:   or(e.JobTitle),
			Department: or(e.Department),
			Status:     status,
		},
		Pages: 1,
	}

	doc.Sections = append(doc.Sections, Section{
		Name:  SectionHeader,
		Lines: []Line{heading(msgs.Get(i18n.CVTitle), titleY, TitleSize)},
	})

	contact := []string{
		fmt.Sprintf("%s: %s", msgs.Get(i18n.CVName), name),
		field(i18n.CVPhone, e.Phone),
		field(i18n.CVEmail, e.Email),
		field(i18n.CVAddress, e.Address),
	}
	doc.Sections = append(doc.Sections, Section{
		Name:  SectionContact,
		Lines: rows(contact, contactY),
	})

	employment := []string{
		field(i18n.CVJobTitle, e.JobTitle),
		field(i18n.CVDepartment, e.Department),
		field(i18n.CVStartDate, e.AdmissionDate),
		fmt.Sprintf("%s: %s", msgs.Get(i18n.CVStatus), status),
		field(i18n.CVID, id),
	}
	doc.Sections = append(doc.Sections, Section{
		Name: SectionEmployment,
		Lines: append(
			[]Line{heading(msgs.Get(i18n.CVEmploymentHeading), employmentY, HeadingSize)},
			rows(employment, employmentRowY)...),
	})

	history := []Line{heading(msgs.Get(i18n.CVHistoryHeading), historyY, HeadingSize)}
	if len(e.History) == 0 {
		history = append(history, body(msgs.Get(i18n.CVNoHistory), 1, historyRowY))
	} else {
		page, y := 1, historyRowY
		for _, h := range e.History {
			if y > lastLineY {
				page++
				y = titleY
			}
			history = append(history, body(fmt.Sprintf("%s: %s", or(h.Date), or(h.Event)), page, y))
			y += lineStep
		}
		doc.Pages = page
	}
	doc.Sections = append(doc.Sections, Section{Name: SectionHistory, Lines: history})

	return doc
}

func heading(text string, y, size float64) Line {
	return Line{Text: text, Page: 1, X: Margin, Y: y, Size: size, Bold: true}
}

func body(text string, page int, y float64) Line {
	return Line{Text: text, Page: page, X: Margin, Y: y, Size: BodySize}
}

func rows(texts []string, startY float64) []Line {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = body(t, 1, startY+float64(i)*lineStep)
	}
	return lines
}

// Lines flattens the sections in drawing order.
func (d *Document) Lines() []Line {
	var out []Line
	for _, s := range d.Sections {
		out = append(out, s.Lines...)
	}
	return out
}

// Text is the plain-text preview, one line per text run.
func (d *Document) Text() string {
	var b strings.Builder
	for _, l := range d.Lines() {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// FileName returns <First>_<Last>_CV_Generated.pdf, falling back to the id
// when the record has no name.
func FileName(e *employee.Employee, id string) string {
	var parts []string
	if e != nil {
		for _, p := range []string{e.FirstName, e.LastName} {
			if p = sanitizeFileName(p); p != "" {
				parts = append(parts, p)
			}
		}
	}
	if len(parts) == 0 {
		if id = sanitizeFileName(id); id != "" {
			parts = append(parts, id)
		} else {
			parts = append(parts, "Employee")
		}
	}
	return strings.Join(parts, "_") + "_CV_Generated.pdf"
}

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r == '/' || r == '\\' || r == '"' || r < 0x20:
			return -1
		}
		return r
	}, s)
}
