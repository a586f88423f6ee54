// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

var contaminationRowRe = regexp.MustCompile(`^(\d{4})\s+(.+)`)

// DepthColumn routes one value of a contamination row into a table.
type DepthColumn struct {
	Table    string
	Depth    float64
	HasDepth bool
}

// ContaminationSpec reconstructs contaminated-runway corrections: every row
// starts with a dry ground roll distance followed by one value per column.
type ContaminationSpec struct {
	SpecName  string
	MinValues int
	// Baseline names a table that also receives the dry distance at depth 0.
	Baseline string
	Columns  []DepthColumn
}

func (s ContaminationSpec) Name() string { return s.SpecName }

// Tables lists the output tables in column order.
func (s ContaminationSpec) Tables() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	add(s.Baseline)
	for _, c := range s.Columns {
		add(c.Table)
	}
	return names
}

func (s ContaminationSpec) header(table string) []string {
	if table == s.Baseline {
		return DepthHeader
	}
	for _, c := range s.Columns {
		if c.Table == table && c.HasDepth {
			return DepthHeader
		}
	}
	return DistanceValueHeader
}

// Records splits one row into per-table records.
func (s ContaminationSpec) Records(distance int, values []int) map[string][]ContaminationRecord {
	out := make(map[string][]ContaminationRecord)
	if s.Baseline != "" {
		out[s.Baseline] = append(out[s.Baseline], ContaminationRecord{
			Distance: distance, HasDepth: true, Value: distance,
		})
	}
	for i, c := range s.Columns {
		if i >= len(values) {
			break
		}
		out[c.Table] = append(out[c.Table], ContaminationRecord{
			Distance: distance, Depth: c.Depth, HasDepth: c.HasDepth, Value: values[i],
		})
	}
	return out
}

// Assemble reads every row whose first token is a four-digit distance.
func (s ContaminationSpec) Assemble(ctx context.Context, src PageSource, job Job) ([]*Table, error) {
	names := s.Tables()
	tables := make(map[string]*Table, len(names))
	ordered := make([]*Table, 0, len(names))
	for _, n := range names {
		t := NewTable(job.Family, s.SpecName, job.Dir, n, s.header(n))
		t.Stats.Expected = job.expected(n, 0)
		tables[n] = t
		ordered = append(ordered, t)
	}
	if len(ordered) == 0 {
		return nil, nil
	}

	lines, err := readPages(ctx, src, job.Pages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Family, err)
	}

	for idx, pl := range lines {
		m := contaminationRowRe.FindStringSubmatch(pl.text)
		if m == nil {
			continue
		}
		distance, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		values := Ints(Tokens(m[2]))
		if len(values) < s.MinValues {
			skip(ordered[0], SkipCardinalityShortfall, pl.page, idx, pl.text)
			continue
		}
		for name, recs := range s.Records(distance, values) {
			t := tables[name]
			for _, r := range recs {
				if err := emit(t, r, job); err != nil {
					return nil, err
				}
			}
		}
	}
	return ordered, nil
}
