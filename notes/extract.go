package notes

import (
	"fmt"
	"regexp"
	"strings"

	dslipakpdf "github.com/dslipak/pdf"
	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// Document is the text pulled out of one uploaded PDF.
type Document struct {
	Path   string
	Pages  int
	Text   string
	Parser string // library that produced Text
}

// Extractor turns an uploaded PDF into plain text.
type Extractor interface {
	ExtractText(path string) (string, error)
}

// PDFExtractor reads PDFs with ledongthuc/pdf and retries with dslipak/pdf
// when the first library cannot open the file.
type PDFExtractor struct {
	Log logrus.FieldLogger
}

// NewPDFExtractor returns an extractor logging to log, or to the standard logger when nil.
func NewPDFExtractor(log logrus.FieldLogger) *PDFExtractor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PDFExtractor{Log: log}
}

// ExtractText returns the trimmed text of every page joined by newlines, or
// "" when no page carries extractable text.
func (e *PDFExtractor) ExtractText(path string) (string, error) {
	doc, err := e.Extract(path)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// Extract opens the file and pulls per-page text.
func (e *PDFExtractor) Extract(path string) (*Document, error) {
	pages, err1 := e.readLedongthuc(path)
	if err1 == nil {
		return newDocument(path, "ledongthuc/pdf", pages), nil
	}
	e.Log.WithError(err1).WithField("path", path).Debug("ledongthuc/pdf could not open file, trying dslipak/pdf")

	pages, err2 := e.readDslipak(path)
	if err2 == nil {
		return newDocument(path, "dslipak/pdf", pages), nil
	}
	return nil, &InputError{
		Msg: "The uploaded file is not a readable PDF.",
		Err: fmt.Errorf("ledongthuc/pdf: %v; dslipak/pdf: %w", err1, err2),
	}
}

func (e *PDFExtractor) readLedongthuc(path string) (pages []string, err error) {
	// Both readers panic on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n := reader.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.Log.WithError(err).WithField("page", i).Warn("could not extract page text")
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func (e *PDFExtractor) readDslipak(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse panic: %v", r)
		}
	}()

	reader, err := dslipakpdf.Open(path)
	if err != nil {
		return nil, err
	}

	n := reader.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		text, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			e.Log.WithError(err).WithField("page", i).Warn("dslipak/pdf could not extract page text")
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func newDocument(path, parser string, pages []string) *Document {
	var b strings.Builder
	for _, p := range pages {
		p = cleanPageText(p)
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteString("\n")
	}
	return &Document{
		Path:   path,
		Pages:  len(pages),
		Text:   strings.TrimSpace(b.String()),
		Parser: parser,
	}
}

var inlineSpace = regexp.MustCompile(`[ \t]+`)

// cleanPageText collapses runs of blanks and normalises to NFC so that
// decomposed Indic vowel signs match the script ranges in DetectLanguage.
func cleanPageText(text string) string {
	lines := strings.Split(norm.NFC.String(text), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(inlineSpace.ReplaceAllString(line, " "), " ")
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
