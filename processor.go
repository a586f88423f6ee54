// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sassoftware/viya-afm-xtract/afm"
	"github.com/sassoftware/viya-afm-xtract/logger"
)

// Processor defines the contract for rebuilding the performance tables of a manual.
type Processor interface {
	Extract(ctx context.Context, path string) (*Result, error)
	ExtractDocument(ctx context.Context, doc Document, variant Variant) (*Result, error)
}

// Result holds the tables reconstructed from one document.
type Result struct {
	Variant Variant
	Tables  []*afm.Table
	Report  *Report
}

// WriteTables sends every table to sink.
func (r *Result) WriteTables(sink Sink) error {
	for _, t := range r.Tables {
		if err := sink.Write(r.Variant, t); err != nil {
			return err
		}
	}
	return nil
}

// processor manages manual extraction with concurrency control.
type processor struct {
	cfg    *Config
	sem    *semaphore.Weighted
	layout *Layout
	clock  clockwork.Clock
}

// NewProcessor validates the config, loads the page layout and creates a new processor.
func NewProcessor(cfg *Config) (*processor, error) {
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	layout, err := LoadLayout(cfg.LayoutFile)
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logger.Debug("processor initialized",
		"parsing_mode", string(cfg.ParsingMode),
		"text_mode", string(cfg.TextMode),
		"max_concurrent_documents", cfg.MaxConcurrentDocuments,
		"max_concurrent_tables", cfg.MaxConcurrentTables,
		true)

	return &processor{
		cfg:    cfg,
		sem:    semaphore.NewWeighted(int64(cfg.MaxConcurrentDocuments)),
		layout: layout,
		clock:  clock,
	}, nil
}

// Extract opens the PDF at path, decides its variant and rebuilds its tables.
func (p *processor) Extract(ctx context.Context, path string) (*Result, error) {
	if err := p.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	doc, err := OpenPDF(path, p.cfg)
	if err != nil {
		p.cfg.Metrics.documentDone(p.cfg.Variant, err)
		return nil, err
	}
	defer doc.Close()

	variant := p.cfg.Variant
	if variant == "" {
		variant = DetectVariant(path, doc.Meta())
	}
	logger.Info("extracting manual", "path", path, "variant", string(variant), "pages", doc.PageCount())

	res, err := p.ExtractDocument(ctx, doc, variant)
	if err != nil {
		return nil, err
	}
	res.Report.Meta = doc.Meta()
	return res, nil
}

// ExtractDocument rebuilds the tables of doc laid out as variant.
func (p *processor) ExtractDocument(ctx context.Context, doc Document, variant Variant) (res *Result, err error) {
	defer func() { p.cfg.Metrics.documentDone(variant, err) }()

	families, err := p.families(variant)
	if err != nil {
		return nil, err
	}
	if err := checkPages(doc, families); err != nil {
		return nil, err
	}

	results := make([][]*afm.Table, len(families))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxConcurrentTables)
	for i, f := range families {
		i, f := i, f
		g.Go(func() error {
			tables, err := p.assemble(gctx, doc, f)
			if err != nil {
				return err
			}
			results[i] = tables
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res = &Result{
		Variant: variant,
		Report: &Report{
			RunID:       uuid.New().String(),
			Document:    doc.Name(),
			Variant:     variant,
			GeneratedAt: p.clock.Now().UTC(),
		},
	}
	for _, tables := range results {
		for _, t := range tables {
			res.Tables = append(res.Tables, t)
			res.Report.Tables = append(res.Report.Tables, NewTableReport(variant, t))
		}
	}
	res.Report.sortTables()
	res.Report.logSummary()
	return res, nil
}

func (p *processor) assemble(ctx context.Context, doc Document, f FamilyLayout) ([]*afm.Table, error) {
	spec, err := afm.Lookup(f.Spec)
	if err != nil {
		return nil, err
	}
	start := p.clock.Now()
	tables, err := spec.Assemble(ctx, doc, f.Job(p.cfg.strict()))
	if err != nil {
		return nil, fmt.Errorf("family %s: %w", f.Name, err)
	}
	elapsed := p.clock.Since(start)
	for _, t := range tables {
		p.cfg.Metrics.observeTable(t)
	}
	p.cfg.Metrics.familyDone(f.Name, elapsed.Seconds())
	logger.Debug("family assembled", "family", f.Name, "tables", len(tables), "elapsed", elapsed, true)
	return tables, nil
}

// families returns the layout families of variant, limited to Config.Families.
func (p *processor) families(variant Variant) ([]FamilyLayout, error) {
	all, err := p.layout.Families(variant)
	if err != nil {
		return nil, err
	}
	if len(p.cfg.Families) == 0 {
		return all, nil
	}
	byName := make(map[string]FamilyLayout, len(all))
	for _, f := range all {
		byName[f.Name] = f
	}
	var out []FamilyLayout
	for _, name := range p.cfg.Families {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("variant %s has no family %q", variant, name)
		}
		out = append(out, f)
	}
	return out, nil
}

// checkPages fails when a family points past the end of the document.
func checkPages(doc Document, families []FamilyLayout) error {
	n := doc.PageCount()
	for _, f := range families {
		pages := append([]int(nil), f.Pages...)
		for _, w := range f.Weights {
			pages = append(pages, w.Pages...)
		}
		for _, pg := range pages {
			if pg < 1 || pg > n {
				return fmt.Errorf("%s: family %s needs page %d of %d: %w", doc.Name(), f.Name, pg, n, afm.ErrStructural)
			}
		}
	}
	return nil
}

// Write stores the tables of res under outDir and the completeness report next to them.
func (p *processor) Write(res *Result, outDir string) (string, error) {
	if err := res.WriteTables(CSVSink{Root: outDir}); err != nil {
		return "", err
	}
	return res.Report.WriteTo(outDir, p.cfg.OutputFormat)
}

func (p *processor) acquireSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	logger.Debug("slot acquired", true)
	return nil
}
