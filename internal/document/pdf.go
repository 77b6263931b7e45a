package document

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFSource parses uploads as PDFs. Structure (validation, page copy) goes
// through pdfcpu; per-page plain text comes from ledongthuc/pdf, which
// exposes positioned text fragments we reassemble into lines.
type PDFSource struct {
	conf *model.Configuration
}

// NewPDFSource returns a Source backed by a default pdfcpu configuration.
func NewPDFSource() *PDFSource {
	return &PDFSource{conf: model.NewDefaultConfiguration()}
}

// Open validates the PDF and extracts text for every page up front.
// A document that fails validation is a hard error; a page whose text
// cannot be read yields an empty string.
func (s *PDFSource) Open(_ context.Context, data []byte) (Document, error) {
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), s.conf)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}

	pageCount := pdfCtx.PageCount
	doc := &pdfDocument{raw: data, conf: s.conf}

	texts := extractTexts(data, pageCount)
	for i := 0; i < pageCount; i++ {
		doc.pages = append(doc.pages, pdfPage{number: i + 1, text: texts[i]})
	}
	return doc, nil
}

type pdfDocument struct {
	raw   []byte
	conf  *model.Configuration
	pages []pdfPage
}

func (d *pdfDocument) Pages() []Page {
	pages := make([]Page, len(d.pages))
	for i := range d.pages {
		pages[i] = d.pages[i]
	}
	return pages
}

// Extract serializes the selected pages into a new PDF via pdfcpu's Trim,
// which keeps exactly the selected pages in their original order.
func (d *pdfDocument) Extract(_ context.Context, pageNumbers []int) ([]byte, error) {
	if len(pageNumbers) == 0 {
		return nil, fmt.Errorf("no pages selected")
	}
	selected := make([]string, len(pageNumbers))
	for i, n := range pageNumbers {
		selected[i] = strconv.Itoa(n)
	}

	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(d.raw), &buf, selected, d.conf); err != nil {
		return nil, fmt.Errorf("extracting pages %v: %w", pageNumbers, err)
	}
	return buf.Bytes(), nil
}

type pdfPage struct {
	number int
	text   string
}

func (p pdfPage) Number() int  { return p.number }
func (p pdfPage) Text() string { return p.text }

// extractTexts returns one text per page, best effort. Returned slice always
// has pageCount entries.
func extractTexts(data []byte, pageCount int) []string {
	texts := make([]string, pageCount)

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return texts
	}

	n := r.NumPage()
	if n > pageCount {
		n = pageCount
	}
	for i := 1; i <= n; i++ {
		texts[i-1] = pageText(r, i)
	}
	return texts
}

// pageText reads one page's positioned fragments and joins them into lines.
// Text extraction must never take down the whole run, and the underlying
// reader panics on some malformed content streams, hence the recover.
func pageText(r *lpdf.Reader, pageNum int) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
		}
	}()

	p := r.Page(pageNum)
	if p.V.IsNull() {
		return ""
	}
	return joinRows(p.Content().Text)
}

type textRow struct {
	y         float64
	fragments []lpdf.Text
}

// joinRows groups fragments into visual rows by Y coordinate (small
// tolerance for baseline jitter), orders rows top-to-bottom and fragments
// left-to-right, and joins them into newline-separated text. Classifier
// rules depend on line breaks matching the visual layout.
func joinRows(texts []lpdf.Text) string {
	if len(texts) == 0 {
		return ""
	}

	const tolerance = 2.0
	var rows []textRow
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < tolerance {
				rows[i].fragments = append(rows[i].fragments, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, fragments: []lpdf.Text{t}})
		}
	}

	// PDF user space has its origin at the bottom left: larger Y is higher
	// on the page.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	var b strings.Builder
	for i := range rows {
		sort.SliceStable(rows[i].fragments, func(a, c int) bool {
			return rows[i].fragments[a].X < rows[i].fragments[c].X
		})
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, t := range rows[i].fragments {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strings.TrimSpace(t.S))
		}
	}
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
