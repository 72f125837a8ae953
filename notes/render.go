package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

// Page geometry and type sizes, in points.
const (
	pageMargin     = 40.0
	bodySize       = 11.0
	bodyLeading    = 15.0
	headingSize    = 13.0
	headingLeading = 16.0
	paragraphGap   = 8.0
	builtinFamily  = "Helvetica"
)

// Rendered describes a PDF written by Render.
type Rendered struct {
	Path   string
	Pages  int
	Bytes  int64
	Family string // font family actually used
	// BoldFace is true when Family has a real bold face for headings.
	BoldFace bool
	Font     FontResult
}

// Renderer typesets generated text onto A4 pages.
type Renderer struct {
	Classify Classifier
	Title    string
	Log      logrus.FieldLogger
}

// NewRenderer returns a renderer using ClassifyBlock.
func NewRenderer(log logrus.FieldLogger) *Renderer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Renderer{Classify: ClassifyBlock, Title: "AI Notes", Log: log}
}

// Render writes text to dst, overwriting any existing file. A font that
// cannot be registered is ignored and the built-in Helvetica is used.
func (r *Renderer) Render(text string, font FontResult, dst string) (*Rendered, error) {
	pdf, family, boldFace := r.newDocument(font)

	// Core fonts take cp1252; registered TrueType fonts take UTF-8 as is.
	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	tr := func(s string) string { return s }
	if family == builtinFamily {
		tr = cp1252
	}

	classify := r.Classify
	if classify == nil {
		classify = ClassifyBlock
	}

	pdf.AddPage()
	for _, p := range SplitParagraphs(text) {
		if classify(p) == BlockHeading {
			// Without a bold file the "B" style is the regular outlines, so
			// headings the core font can spell use Helvetica-Bold instead.
			if family != builtinFamily && !boldFace && fitsCP1252(p) {
				pdf.SetFont(builtinFamily, "B", headingSize)
				pdf.MultiCell(0, headingLeading, cp1252(p), "", "L", false)
			} else {
				pdf.SetFont(family, "B", headingSize)
				pdf.MultiCell(0, headingLeading, tr(p), "", "L", false)
			}
		} else {
			pdf.SetFont(family, "", bodySize)
			pdf.MultiCell(0, bodyLeading, tr(p), "", "L", false)
		}
		pdf.Ln(paragraphGap)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, err
	}
	pages := pdf.PageNo()
	if err := pdf.OutputFileAndClose(dst); err != nil {
		return nil, fmt.Errorf("write PDF %s: %w", dst, err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return nil, err
	}
	if n, err := api.PageCountFile(dst); err != nil {
		r.Log.WithError(err).WithField("path", dst).Warn("pdfcpu could not read rendered PDF")
	} else {
		pages = n
	}

	r.Log.WithFields(logrus.Fields{
		"path":   dst,
		"pages":  pages,
		"bytes":  info.Size(),
		"family": family,
		"bold":   boldFace,
	}).Debug("PDF rendered")
	return &Rendered{Path: dst, Pages: pages, Bytes: info.Size(), Family: family, BoldFace: boldFace, Font: font}, nil
}

// newDocument sets up page geometry and tries to embed the font. gofpdf keeps
// its first error, so a failed registration starts over with a clean document.
func (r *Renderer) newDocument(font FontResult) (*gofpdf.Fpdf, string, bool) {
	if font.Usable() && fileExists(font.Path) {
		pdf := r.blankDocument()
		family, bold, err := registerFont(pdf, font.Path)
		if err == nil {
			return pdf, family, bold
		}
		r.Log.WithError(err).WithField("font", font.Path).Warn("font registration failed, using built-in typeface")
	}
	return r.blankDocument(), builtinFamily, true
}

func (r *Renderer) blankDocument() *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		SizeStr:        "A4",
	})
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("notes-web", true)
	return pdf
}

// registerFont embeds the TrueType file under its base name. The "B" style
// uses a bold sibling file when one parses, otherwise the regular outlines,
// and bold reports which.
func registerFont(pdf *gofpdf.Fpdf, path string) (family string, bold bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	if _, err := truetype.Parse(data); err != nil {
		return "", false, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	boldData := data
	if p := boldVariant(path); p != "" {
		if b, err := os.ReadFile(p); err == nil {
			if _, err := truetype.Parse(b); err == nil {
				boldData, bold = b, true
			}
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("embed %s: %v", filepath.Base(path), rec)
		}
	}()
	family = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	pdf.AddUTF8FontFromBytes(family, "", data)
	pdf.AddUTF8FontFromBytes(family, "B", boldData)
	if pdf.Err() {
		return "", false, pdf.Error()
	}
	return family, bold, nil
}

// boldVariant finds Foo-Bold.ttf for Foo-Regular.ttf or Foo.ttf.
func boldVariant(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for _, c := range []string{
		strings.TrimSuffix(stem, "-Regular") + "-Bold" + ext,
		stem + "-Bold" + ext,
	} {
		if c != path && fileExists(c) {
			return c
		}
	}
	return ""
}

// fitsCP1252 reports whether the built-in fonts can show s.
func fitsCP1252(s string) bool {
	_, err := charmap.Windows1252.NewEncoder().String(s)
	return err == nil
}
