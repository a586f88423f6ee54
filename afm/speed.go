// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"context"
	"fmt"
	"strings"
)

// SpeedRule selects the line of one reference-speed table.
type SpeedRule struct {
	Table string
	// Contains and Prefix are matched against the trimmed line; either may be empty.
	Contains string
	Prefix   string
	// MaxLength rejects longer lines when positive.
	MaxLength int
	// FirstLine and LastLine bound the 0-based line index on the page when LastLine is positive.
	FirstLine int
	LastLine  int
}

func (r SpeedRule) matches(idx int, line string) bool {
	trimmed := strings.TrimSpace(line)
	if r.Contains != "" && !strings.Contains(trimmed, r.Contains) {
		return false
	}
	if r.Prefix != "" && !strings.HasPrefix(trimmed, r.Prefix) {
		return false
	}
	if r.MaxLength > 0 && len(line) >= r.MaxLength {
		return false
	}
	if r.LastLine > 0 && (idx < r.FirstLine || idx > r.LastLine) {
		return false
	}
	return true
}

// SpeedSpec reconstructs reference-speed tables: each selected line ends with
// one value per weight, lightest first.
type SpeedSpec struct {
	SpecName string
	Weights  []int
	// Rules are tried in order; the first that matches claims the line.
	Rules []SpeedRule
}

func (s SpeedSpec) Name() string { return s.SpecName }

// Tables lists the output tables in rule order.
func (s SpeedSpec) Tables() []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range s.Rules {
		if !seen[r.Table] {
			seen[r.Table] = true
			names = append(names, r.Table)
		}
	}
	return names
}

// Match returns the rule claiming line idx of a page.
func (s SpeedSpec) Match(idx int, line string) (SpeedRule, bool) {
	for _, r := range s.Rules {
		if r.matches(idx, line) {
			return r, true
		}
	}
	return SpeedRule{}, false
}

// Assemble reads each page separately since line windows are page relative.
func (s SpeedSpec) Assemble(ctx context.Context, src PageSource, job Job) ([]*Table, error) {
	tables := make(map[string]*Table)
	var ordered []*Table
	for _, n := range s.Tables() {
		t := NewTable(job.Family, s.SpecName, job.Dir, n, SpeedHeader)
		t.Stats.Expected = job.expected(n, len(s.Weights))
		tables[n] = t
		ordered = append(ordered, t)
	}

	for _, page := range job.Pages {
		text, err := src.PageText(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("%s: page %d: %w", job.Family, page, err)
		}
		for idx, line := range Lines(text) {
			rule, ok := s.Match(idx, line)
			if !ok {
				continue
			}
			t := tables[rule.Table]
			values := Ints(Tokens(line))
			if len(values) < len(s.Weights) {
				skip(t, SkipCardinalityShortfall, page, idx, line)
				continue
			}
			values = values[len(values)-len(s.Weights):]
			for i, w := range s.Weights {
				if err := emit(t, SpeedRecord{Weight: w, Value: values[i]}, job); err != nil {
					return nil, err
				}
			}
		}
	}
	return ordered, nil
}
