// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"context"
	"fmt"
)

// ISALayout says where a distance row keeps its reference-atmosphere value.
type ISALayout int

const (
	// TrailingISA rows list the printed temperatures ascending, then the ISA value.
	TrailingISA ISALayout = iota
	// BracketedISA rows start at the coldest printed temperature and end with
	// the ISA value; missing columns drop out of the middle.
	BracketedISA
	// Ascending rows list printed temperatures only.
	Ascending
)

func (l ISALayout) String() string {
	switch l {
	case TrailingISA:
		return "trailing-isa"
	case BracketedISA:
		return "bracketed-isa"
	case Ascending:
		return "ascending"
	}
	return fmt.Sprintf("ISALayout(%d)", int(l))
}

// ColumnRule marks rows whose last token is the ISA value even though fewer
// than all printed temperatures are present.
type ColumnRule struct {
	MinAltitude int
	// Tokens lists the row lengths the rule applies to. Empty means any length.
	Tokens []int
}

func (r ColumnRule) applies(altitude, n int) bool {
	if altitude < r.MinAltitude {
		return false
	}
	if len(r.Tokens) == 0 {
		return true
	}
	for _, t := range r.Tokens {
		if t == n {
			return true
		}
	}
	return false
}

// Output table names of a distance family.
const (
	GroundRunTable     = "ground run"
	TotalDistanceTable = "total distance"
)

// DistanceSpec reconstructs ground-run and total-distance tables, one block
// of rows per (weight, altitude).
type DistanceSpec struct {
	SpecName     string
	Temperatures []int
	Layout       ISALayout
	Rules        []ColumnRule
	Classifier   Classifier
}

func (s DistanceSpec) Name() string { return s.SpecName }

// columns is the nominal number of values per row.
func (s DistanceSpec) columns() int {
	if s.Layout == Ascending {
		return len(s.Temperatures)
	}
	return len(s.Temperatures) + 1
}

// Label assigns the values of one row to temperature columns.
func (s DistanceSpec) Label(weight, altitude int, values []int) []PerformanceRecord {
	n := len(values)
	if n == 0 {
		return nil
	}
	rec := func(t Temperature, v int) PerformanceRecord {
		return PerformanceRecord{Weight: weight, Altitude: altitude, Temperature: t, Value: v}
	}
	var out []PerformanceRecord
	ascending := func(vals []int, temps []int) {
		for i, v := range vals {
			if i >= len(temps) {
				break
			}
			out = append(out, rec(Degrees(temps[i]), v))
		}
	}

	switch s.Layout {
	case TrailingISA:
		printed := n
		for _, r := range s.Rules {
			if r.applies(altitude, n) {
				printed = n - 1
				break
			}
		}
		if printed > len(s.Temperatures) {
			printed = len(s.Temperatures)
		}
		ascending(values[:printed], s.Temperatures)
		if n > printed {
			out = append(out, rec(StandardAt(altitude), values[n-1]))
		}
	case BracketedISA:
		out = append(out, rec(Degrees(s.Temperatures[0]), values[0]))
		if n > 1 {
			ascending(values[1:n-1], s.Temperatures[1:])
			out = append(out, rec(StandardAt(altitude), values[n-1]))
		}
	case Ascending:
		ascending(values, s.Temperatures)
	}
	return out
}

// Assemble scans each weight's pages as one line stream. The altitude context
// is released at every page break so a total row never pairs with an anchor
// from another page.
func (s DistanceSpec) Assemble(ctx context.Context, src PageSource, job Job) ([]*Table, error) {
	ground := NewTable(job.Family, s.SpecName, job.Dir, GroundRunTable, PerformanceHeader)
	total := NewTable(job.Family, s.SpecName, job.Dir, TotalDistanceTable, PerformanceHeader)

	altitudes := s.Classifier.Altitudes.Altitudes()
	widths := make(map[Anchor]int)
	var blocks []Anchor

	for _, wp := range job.Weights {
		for _, alt := range altitudes {
			a := Anchor{Weight: wp.Weight, Altitude: alt}
			ground.Stats.ExpectAnchor(a)
			total.Stats.ExpectAnchor(a)
			blocks = append(blocks, a)
		}

		lines, err := readPages(ctx, src, wp.Pages)
		if err != nil {
			return nil, fmt.Errorf("%s %d lb: %w", job.Family, wp.Weight, err)
		}

		actx := NewAltitudeContext()
		page := 0
		for idx, pl := range lines {
			if pl.page != page {
				actx.Release()
				page = pl.page
			}

			row := s.Classifier.Classify(idx, pl.text, actx)
			target := ground
			if row.Kind == TotalRow {
				target = total
			}
			if row.Reject != "" {
				skip(target, row.Reject, pl.page, idx, pl.text)
				continue
			}
			if row.Kind != GroundRunRow && row.Kind != TotalRow {
				continue
			}

			if row.Kind == GroundRunRow {
				actx.Anchor(row.Altitude, idx)
			}
			actx.Consume(idx)

			records := s.Label(wp.Weight, row.Altitude, Ints(Tokens(row.Digits)))
			if len(records) == 0 {
				skip(target, SkipCardinalityShortfall, pl.page, idx, pl.text)
				continue
			}
			a := Anchor{Weight: wp.Weight, Altitude: row.Altitude}
			target.Stats.SeeAnchor(a)
			if _, ok := widths[a]; row.Kind == GroundRunRow && !ok {
				widths[a] = len(records)
			}
			for _, r := range records {
				if err := emit(target, r, job); err != nil {
					return nil, err
				}
			}
		}
	}

	nominal := s.publishedCells(blocks, widths)
	ground.Stats.Expected = job.expected(GroundRunTable, nominal)
	total.Stats.Expected = job.expected(TotalDistanceTable, nominal)
	return []*Table{ground, total}, nil
}

// publishedCells counts the cells a manual prints for blocks. Hot columns
// drop out of high-altitude rows, so a block's width is taken from its ground
// run row; a block that was never found counts at full width.
func (s DistanceSpec) publishedCells(blocks []Anchor, widths map[Anchor]int) int {
	n := 0
	for _, a := range blocks {
		if w, ok := widths[a]; ok && w < s.columns() {
			n += w
			continue
		}
		n += s.columns()
	}
	return n
}
