package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTextPDF renders text with the built-in font so tests need no fixtures on disk.
func writeTextPDF(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.pdf")
	_, err := NewRenderer(quietLogger()).Render(text, FontResult{}, path)
	require.NoError(t, err)
	return path
}

func writeImageOnlyPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.pdf")
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFillColor(40, 40, 40)
	pdf.Rect(20, 20, 120, 80, "F")
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

func TestExtractTextPDF(t *testing.T) {
	path := writeTextPDF(t, "Photosynthesis:\n\nChlorophyll absorbs light energy.")

	doc, err := NewPDFExtractor(quietLogger()).Extract(path)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Pages)
	assert.Equal(t, "ledongthuc/pdf", doc.Parser)
	assert.Contains(t, doc.Text, "Photosynthesis")
	assert.Contains(t, doc.Text, "Chlorophyll")
	assert.Equal(t, strings.TrimSpace(doc.Text), doc.Text)
}

func TestExtractImageOnlyPDF(t *testing.T) {
	text, err := NewPDFExtractor(quietLogger()).ExtractText(writeImageOnlyPDF(t))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just some text, not a PDF"), 0644))

	_, err := NewPDFExtractor(quietLogger()).ExtractText(path)
	require.Error(t, err)
	inputErr, ok := IsInputError(err)
	require.True(t, ok)
	assert.Equal(t, "The uploaded file is not a readable PDF.", inputErr.Msg)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := NewPDFExtractor(quietLogger()).ExtractText(filepath.Join(t.TempDir(), "absent.pdf"))
	_, ok := IsInputError(err)
	assert.True(t, ok)
}

func TestCleanPageText(t *testing.T) {
	// "e" + combining acute composes to a single code point.
	assert.Equal(t, "caf\u00e9 au lait", cleanPageText("  cafe\u0301 \t au   lait  "))
	assert.Equal(t, "a\nb", cleanPageText("a   \nb\t"))
}

func TestNewDocumentSkipsEmptyPages(t *testing.T) {
	doc := newDocument("x.pdf", "test", []string{"", " one ", "", "two"})
	assert.Equal(t, 4, doc.Pages)
	assert.Equal(t, "one\ntwo", doc.Text)
}
