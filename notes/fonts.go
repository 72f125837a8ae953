package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
)

// FontSpec names a font file and where to fetch it from.
type FontSpec struct {
	File string
	URL  string
}

const (
	dejaVuURL   = "https://github.com/dejavu-fonts/dejavu-fonts/raw/master/ttf/DejaVuSans.ttf"
	notoBaseURL = "https://github.com/googlefonts/noto-fonts/raw/main/hinted/ttf/"
)

// DefaultFontTable maps each language to a font covering its script.
var DefaultFontTable = map[Language]FontSpec{
	English:   {"DejaVuSans.ttf", dejaVuURL},
	French:    {"DejaVuSans.ttf", dejaVuURL},
	Hindi:     {"NotoSansDevanagari-Regular.ttf", notoBaseURL + "NotoSansDevanagari/NotoSansDevanagari-Regular.ttf"},
	Tamil:     {"NotoSansTamil-Regular.ttf", notoBaseURL + "NotoSansTamil/NotoSansTamil-Regular.ttf"},
	Malayalam: {"NotoSansMalayalam-Regular.ttf", notoBaseURL + "NotoSansMalayalam/NotoSansMalayalam-Regular.ttf"},
	Telugu:    {"NotoSansTelugu-Regular.ttf", notoBaseURL + "NotoSansTelugu/NotoSansTelugu-Regular.ttf"},
}

// DefaultFallbackFont is tried when the language's own font cannot be had.
var DefaultFallbackFont = FontSpec{"DejaVuSans.ttf", dejaVuURL}

// FontOrigin says how a FontResult was obtained.
type FontOrigin string

const (
	FontCached     FontOrigin = "cached"
	FontDownloaded FontOrigin = "downloaded"
	FontSystem     FontOrigin = "system" // found in an OS font directory
	FontFallback   FontOrigin = "fallback"
	FontNone       FontOrigin = "none" // render with the built-in typeface
)

// FontResult is the outcome of Resolve. Path is empty when Origin is FontNone,
// in which case Err holds the AssetError explaining why.
type FontResult struct {
	Language Language
	Path     string
	Origin   FontOrigin
	Err      error
}

// Usable reports whether Path points at a font file on disk.
func (r FontResult) Usable() bool { return r.Path != "" && r.Origin != FontNone }

// FontSource resolves a font for a language.
type FontSource interface {
	Resolve(ctx context.Context, lang Language) FontResult
}

// FontResolver keeps a directory of downloaded fonts. Files are fetched once
// and never re-validated; a corrupt cached file is only noticed by the
// renderer, which then falls back to its default typeface.
type FontResolver struct {
	Dir string
	// SystemDirs are searched for the same file name before downloading.
	SystemDirs      []string
	Table           map[Language]FontSpec
	Fallback        FontSpec
	Client          *http.Client
	Timeout         time.Duration
	FallbackTimeout time.Duration
	Log             logrus.FieldLogger
}

// NewFontResolver returns a resolver caching fonts under dir.
func NewFontResolver(dir string, log logrus.FieldLogger) *FontResolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FontResolver{
		Dir:             dir,
		Table:           DefaultFontTable,
		Fallback:        DefaultFallbackFont,
		Client:          &http.Client{},
		Timeout:         20 * time.Second,
		FallbackTimeout: 15 * time.Second,
		Log:             log,
	}
}

// Resolve returns a local font for lang, downloading it when missing.
// Languages outside the table use the English entry.
func (r *FontResolver) Resolve(ctx context.Context, lang Language) FontResult {
	spec, ok := r.Table[lang]
	if !ok {
		spec = r.Table[English]
	}
	log := r.Log.WithFields(logrus.Fields{"language": lang, "font": spec.File})

	path, origin, err := r.ensure(ctx, spec, r.Timeout)
	if err == nil {
		log.WithField("origin", origin).Debug("font resolved")
		return FontResult{Language: lang, Path: path, Origin: origin}
	}
	log.WithError(err).Warn("font download failed, trying fallback font")

	path, _, fbErr := r.ensure(ctx, r.Fallback, r.FallbackTimeout)
	if fbErr == nil {
		return FontResult{Language: lang, Path: path, Origin: FontFallback}
	}
	log.WithError(fbErr).Warn("fallback font unavailable, using built-in typeface")
	return FontResult{
		Language: lang,
		Origin:   FontNone,
		Err:      &AssetError{File: r.Fallback.File, Err: errors.Join(err, fbErr)},
	}
}

// ensure returns the cached file or downloads it under a file lock so that
// concurrent requests do not fetch the same font twice.
func (r *FontResolver) ensure(ctx context.Context, spec FontSpec, timeout time.Duration) (string, FontOrigin, error) {
	path := filepath.Join(r.Dir, spec.File)
	if fileExists(path) {
		return path, FontCached, nil
	}
	if p := findSystemFont(r.SystemDirs, spec.File); p != "" {
		return p, FontSystem, nil
	}
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return "", "", err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", "", fmt.Errorf("lock %s: %w", spec.File, err)
	}
	defer lock.Unlock()

	if fileExists(path) {
		return path, FontCached, nil
	}
	if err := r.download(ctx, spec.URL, path, timeout); err != nil {
		return "", "", err
	}
	return path, FontDownloaded, nil
}

func (r *FontResolver) download(ctx context.Context, url, dst string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("GET %s: empty body", url)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+strings.TrimSuffix(filepath.Base(dst), filepath.Ext(dst))+"-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// SystemFontDirs lists the usual font directories of the running OS.
func SystemFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
	case "darwin":
		home, _ := os.UserHomeDir()
		return []string{"/System/Library/Fonts", "/Library/Fonts", filepath.Join(home, "Library", "Fonts")}
	default:
		home, _ := os.UserHomeDir()
		return []string{"/usr/share/fonts", "/usr/local/share/fonts", filepath.Join(home, ".local", "share", "fonts")}
	}
}

// findSystemFont walks dirs for a file named name, ignoring case.
func findSystemFont(dirs []string, name string) string {
	var found string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && strings.EqualFold(d.Name(), name) {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// fileExists reports whether path can be stat-ed.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
