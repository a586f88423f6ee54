// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/unicode/norm"

	"github.com/sassoftware/viya-afm-xtract/afm"
	"github.com/sassoftware/viya-afm-xtract/logger"
)

// Document is a manual whose pages can be read as text.
type Document interface {
	afm.PageSource
	Name() string
	PageCount() int
}

// ExtractorStrategy decides how a page that cannot be read affects the run.
type ExtractorStrategy interface {
	ExtractPage(ctx context.Context, page *pageReader) (string, error)
}

// StrictExtractor enforces strict parsing.
// If any page fails, the table family reading it fails.
type StrictExtractor struct{}

func (s *StrictExtractor) ExtractPage(ctx context.Context, page *pageReader) (string, error) {
	return page.read(ctx)
}

// BestEffortExtractor tolerates errors.
// A page that fails contributes no lines.
type BestEffortExtractor struct{}

func (b *BestEffortExtractor) ExtractPage(ctx context.Context, page *pageReader) (string, error) {
	text, err := page.read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logger.Warn("page unreadable, continuing without it", "page", page.number, "err", err)
		page.failed = true
		return "", nil
	}
	return text, nil
}

func newExtractor(mode ParsingMode) ExtractorStrategy {
	if mode == Strict {
		return &StrictExtractor{}
	}
	return &BestEffortExtractor{}
}

// pageReader extracts the text of one page with retries and a per-attempt timeout.
type pageReader struct {
	doc    *PDFDocument
	number int
	// failed is set when an extractor swallowed the read error.
	failed bool
}

func (p *pageReader) read(ctx context.Context) (string, error) {
	cfg := p.doc.cfg
	var text string
	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, cfg.PageTimeout)
			defer cancel()
			t, err := p.doc.extract(attemptCtx, p.number)
			if err != nil {
				return err
			}
			text = t
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(cfg.MaxRetries+1)),
		retry.Delay(cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("retrying page extraction", "page", p.number, "attempt", n+1, "err", err, true)
		}),
	)
	if err != nil {
		p.doc.cfg.Metrics.pageFailed()
		return "", err
	}
	p.doc.cfg.Metrics.pageRead()
	return text, nil
}

// PDFDocument reads page text from a PDF file.
type PDFDocument struct {
	path  string
	cfg   *Config
	file  *os.File
	r     *pdf.Reader
	meta  Meta
	pages int

	extractor ExtractorStrategy

	// readMu serializes access to the PDF reader.
	readMu sync.Mutex
	mu     sync.Mutex
	cache  map[int]string
}

// OpenPDF opens path for page extraction.
func OpenPDF(path string, cfg *Config) (*PDFDocument, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, afm.ErrStructural, err)
	}

	f, r, err := openReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, afm.ErrStructural, err)
	}

	doc := &PDFDocument{
		path:      path,
		cfg:       cfg,
		file:      f,
		r:         r,
		pages:     r.NumPage(),
		extractor: newExtractor(cfg.ParsingMode),
		cache:     make(map[int]string),
	}

	if err := doc.checkPageCount(); err != nil {
		_ = f.Close()
		return nil, err
	}

	meta, err := readMetadata(r)
	if err != nil {
		logger.Warn("metadata unreadable", "path", path, "err", err)
	}
	doc.meta = meta

	logger.Debug("pdf opened", "path", path, "pages", doc.pages, true)
	return doc, nil
}

// openReader wraps pdf.Open, which panics on some malformed trailers.
func openReader(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				_ = f.Close()
			}
			f, r, err = nil, nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	return pdf.Open(path)
}

// checkPageCount compares the reader's page count with pdfcpu's.
func (d *PDFDocument) checkPageCount() error {
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", d.path, afm.ErrStructural, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(f, conf)
	switch {
	case err != nil:
		if d.cfg.strict() {
			return fmt.Errorf("%s: page count: %w: %w", d.path, afm.ErrStructural, err)
		}
		logger.Warn("page count cross-check failed", "path", d.path, "err", err)
	case n != d.pages:
		if d.cfg.strict() {
			return fmt.Errorf("%s: page tree has %d pages, reader found %d: %w", d.path, n, d.pages, afm.ErrStructural)
		}
		logger.Warn("page count mismatch", "path", d.path, "pdfcpu", n, "reader", d.pages)
	}
	return nil
}

// Name is the file path.
func (d *PDFDocument) Name() string { return d.path }

// PageCount is the number of pages.
func (d *PDFDocument) PageCount() int { return d.pages }

// Meta returns the document metadata.
func (d *PDFDocument) Meta() Meta { return d.meta }

// Close releases the underlying file.
func (d *PDFDocument) Close() error {
	return d.file.Close()
}

// PageText returns the text of a 1-based page. Successful reads are cached;
// a page skipped by a best-effort extractor is read again on the next call.
func (d *PDFDocument) PageText(ctx context.Context, page int) (string, error) {
	if page < 1 || page > d.pages {
		return "", fmt.Errorf("page %d of %d: %w", page, d.pages, afm.ErrStructural)
	}
	d.mu.Lock()
	text, ok := d.cache[page]
	d.mu.Unlock()
	if ok {
		return text, nil
	}

	reader := &pageReader{doc: d, number: page}
	text, err := d.extractor.ExtractPage(ctx, reader)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", page, err)
	}
	if reader.failed {
		return text, nil
	}

	d.mu.Lock()
	d.cache[page] = text
	d.mu.Unlock()
	return text, nil
}

type extractResult struct {
	text string
	err  error
}

// extract reads one page in a goroutine so that a stalled content stream
// is abandoned when ctx ends.
func (d *PDFDocument) extract(ctx context.Context, number int) (string, error) {
	done := make(chan extractResult, 1)
	go func() {
		d.readMu.Lock()
		defer d.readMu.Unlock()
		defer func() {
			if rec := recover(); rec != nil {
				done <- extractResult{err: fmt.Errorf("content stream: %v", rec)}
			}
		}()
		text, err := d.pageText(number)
		done <- extractResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.text, res.err
	}
}

func (d *PDFDocument) pageText(number int) (string, error) {
	start := time.Now()
	page := d.r.Page(number)
	if page.V.IsNull() {
		return "", errors.New("null page")
	}

	var text string
	switch d.cfg.TextMode {
	case PlainText:
		t, err := page.GetPlainText(cacheFonts(page))
		if err != nil {
			return "", err
		}
		text = t
	default:
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", err
		}
		text = joinRows(rows)
	}
	logger.Debug("page extracted", "page", number, "chars", len(text), "elapsed", time.Since(start), true)
	return norm.NFKC.String(text), nil
}

// joinRows renders rows top to bottom, one line per baseline.
func joinRows(rows pdf.Rows) string {
	sorted := make([]*pdf.Row, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position > sorted[j].Position
	})
	lines := make([]string, 0, len(sorted))
	for _, r := range sorted {
		lines = append(lines, joinRow(r.Content))
	}
	return strings.Join(lines, "\n")
}

// joinRow orders the glyph runs of one baseline left to right, inserting a
// space where the gap between runs exceeds a fifth of the font size.
func joinRow(texts []pdf.Text) string {
	runs := make([]pdf.Text, len(texts))
	copy(runs, texts)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var b strings.Builder
	end := 0.0
	for i, t := range runs {
		if i > 0 && t.X-end > 0.2*t.FontSize && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.S, " ") {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		if e := t.X + t.W; e > end || i == 0 {
			end = e
		}
	}
	return b.String()
}

// cacheFonts creates a one-time map of fonts for a page to avoid
// repeatedly parsing font charmaps.
func cacheFonts(page pdf.Page) map[string]*pdf.Font {
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		if _, exists := fonts[name]; !exists {
			f := page.Font(name)
			fonts[name] = &f
		}
	}
	return fonts
}

// TextDocument serves page text held in memory, such as a page dump.
type TextDocument struct {
	name  string
	pages map[int]string
	count int
}

// NewTextDocument creates a document from 1-based page texts.
func NewTextDocument(name string, pages map[int]string) *TextDocument {
	count := 0
	for p := range pages {
		if p > count {
			count = p
		}
	}
	return &TextDocument{name: name, pages: pages, count: count}
}

func (d *TextDocument) Name() string   { return d.name }
func (d *TextDocument) PageCount() int { return d.count }

// PageText returns the stored text; pages inside the range without text are empty.
func (d *TextDocument) PageText(ctx context.Context, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page < 1 || page > d.count {
		return "", fmt.Errorf("page %d of %d: %w", page, d.count, afm.ErrStructural)
	}
	return d.pages[page], nil
}

const dumpPattern = "page-%04d.txt"

// LoadTextDump reads a directory written by WriteTextDump.
func LoadTextDump(dir string) (*TextDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", dir, afm.ErrStructural, err)
	}
	pages := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(e.Name(), "page-%d.txt", &n); err != nil || n < 1 {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		pages[n] = string(b)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%s: no page files: %w", dir, afm.ErrStructural)
	}
	return NewTextDocument(dir, pages), nil
}

// WriteTextDump writes the given pages of doc, or every page when pages is
// empty, as one text file per page.
func WriteTextDump(ctx context.Context, doc Document, dir string, pages []int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if len(pages) == 0 {
		for p := 1; p <= doc.PageCount(); p++ {
			pages = append(pages, p)
		}
	}
	for _, p := range pages {
		text, err := doc.PageText(ctx, p)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf(dumpPattern, p))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return err
		}
	}
	logger.Info("page text written", "dir", dir, "pages", len(pages))
	return nil
}
