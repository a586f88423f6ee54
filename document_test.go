// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sassoftware/viya-afm-xtract/afm"
)

func glyphs(x float64, s string) []pdf.Text {
	var out []pdf.Text
	for _, r := range s {
		out = append(out, pdf.Text{X: x, W: 5, FontSize: 10, S: string(r)})
		x += 5
	}
	return out
}

func TestJoinRow(t *testing.T) {
	t.Run("gap inserts space", func(t *testing.T) {
		row := append(glyphs(100, "1550"), glyphs(130, "1600")...)
		assert.Equal(t, "1550 1600", joinRow(row))
	})
	t.Run("adjacent glyphs join", func(t *testing.T) {
		row := append(glyphs(100, "1550"), glyphs(120.5, "1600")...)
		assert.Equal(t, "15501600", joinRow(row))
	})
	t.Run("orders by x", func(t *testing.T) {
		row := append(glyphs(130, "1600"), glyphs(100, "1550")...)
		assert.Equal(t, "1550 1600", joinRow(row))
	})
	t.Run("keeps existing spaces", func(t *testing.T) {
		row := []pdf.Text{
			{X: 0, W: 20, FontSize: 10, S: "SL "},
			{X: 40, W: 20, FontSize: 10, S: "Gnd"},
		}
		assert.Equal(t, "SL Gnd", joinRow(row))
	})
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", joinRow(nil))
	})
}

func TestJoinRows(t *testing.T) {
	rows := pdf.Rows{
		{Position: 100, Content: glyphs(0, "bottom")},
		nil,
		{Position: 700, Content: glyphs(0, "top")},
		{Position: 400, Content: glyphs(0, "middle")},
	}
	assert.Equal(t, "top\nmiddle\nbottom", joinRows(rows))
}

func TestTextDocument(t *testing.T) {
	ctx := context.Background()
	doc := NewTextDocument("dump", map[int]string{1: "first", 3: "third"})

	assert.Equal(t, "dump", doc.Name())
	assert.Equal(t, 3, doc.PageCount())

	text, err := doc.PageText(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "third", text)

	text, err = doc.PageText(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = doc.PageText(ctx, 4)
	assert.ErrorIs(t, err, afm.ErrStructural)
	_, err = doc.PageText(ctx, 0)
	assert.ErrorIs(t, err, afm.ErrStructural)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = doc.PageText(cancelled, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTextDumpRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := NewTextDocument("src", map[int]string{1: "a\nb", 2: "", 12: "SL Gnd Roll 1000"})

	require.NoError(t, WriteTextDump(ctx, src, dir, []int{1, 12}))
	_, err := os.Stat(filepath.Join(dir, "page-0012.txt"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	got, err := LoadTextDump(dir)
	require.NoError(t, err)
	assert.Equal(t, 12, got.PageCount())

	text, err := got.PageText(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, "SL Gnd Roll 1000", text)
	text, err = got.PageText(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", text)
}

func TestWriteTextDumpAllPages(t *testing.T) {
	dir := t.TempDir()
	src := NewTextDocument("src", map[int]string{1: "one", 2: "two"})
	require.NoError(t, WriteTextDump(context.Background(), src, dir, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLoadTextDumpErrors(t *testing.T) {
	_, err := LoadTextDump(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, afm.ErrStructural)

	_, err = LoadTextDump(t.TempDir())
	assert.ErrorIs(t, err, afm.ErrStructural)
}

func TestOpenPDFStructuralErrors(t *testing.T) {
	_, err := OpenPDF(filepath.Join(t.TempDir(), "absent.pdf"), nil)
	assert.ErrorIs(t, err, afm.ErrStructural)

	junk := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(junk, []byte("this is not a pdf"), 0o644))
	_, err = OpenPDF(junk, nil)
	assert.ErrorIs(t, err, afm.ErrStructural)
}

func TestNewExtractor(t *testing.T) {
	assert.IsType(t, &StrictExtractor{}, newExtractor(Strict))
	assert.IsType(t, &BestEffortExtractor{}, newExtractor(BestEffort))
}

type flakyExtractor struct {
	calls int
}

func (f *flakyExtractor) ExtractPage(_ context.Context, page *pageReader) (string, error) {
	f.calls++
	if f.calls == 1 {
		page.failed = true
		return "", nil
	}
	return "SLGnd Roll 550 600", nil
}

func TestPDFDocumentSkippedPageNotCached(t *testing.T) {
	ex := &flakyExtractor{}
	doc := &PDFDocument{path: "manual.pdf", cfg: NewDefaultConfig(), pages: 2, extractor: ex, cache: make(map[int]string)}

	text, err := doc.PageText(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = doc.PageText(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "SLGnd Roll 550 600", text)

	_, err = doc.PageText(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, ex.calls)
}

func TestBestEffortExtractorMarksFailedPage(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MaxRetries = 0
	cfg.Metrics = NewMetricsForTesting()
	// No reader: extraction panics and is recovered as a read error.
	doc := &PDFDocument{path: "broken.pdf", cfg: cfg, pages: 1, cache: make(map[int]string)}

	reader := &pageReader{doc: doc, number: 1}
	text, err := (&BestEffortExtractor{}).ExtractPage(context.Background(), reader)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.True(t, reader.failed)

	doc.extractor = &BestEffortExtractor{}
	for i := 0; i < 2; i++ {
		_, err = doc.PageText(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Empty(t, doc.cache)
	assert.Equal(t, float64(3), testutil.ToFloat64(cfg.Metrics.PageFailures))
}
