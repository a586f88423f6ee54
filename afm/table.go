// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"fmt"
	"sort"
)

// Anchor identifies an expected (weight, altitude) block of a table. Climb
// matrices hold every weight in one block and use Weight 0.
type Anchor struct {
	Weight   int
	Altitude int
}

func (a Anchor) String() string {
	if a.Weight == 0 {
		return fmt.Sprintf("%d ft", a.Altitude)
	}
	return fmt.Sprintf("%d lb @ %d ft", a.Weight, a.Altitude)
}

// Stats records what a scan saw beyond the rows it emitted.
type Stats struct {
	Expected   int
	Skipped    map[SkipReason]int
	Collisions int

	anchors  map[Anchor]struct{}
	expected []Anchor
}

// Skip counts a recovered row.
func (s *Stats) Skip(reason SkipReason) {
	if s.Skipped == nil {
		s.Skipped = make(map[SkipReason]int)
	}
	s.Skipped[reason]++
	if reason == SkipCollision {
		s.Collisions++
	}
}

// ExpectAnchor declares a block the table should contain.
func (s *Stats) ExpectAnchor(a Anchor) {
	s.expected = append(s.expected, a)
}

// SeeAnchor records a block the scan found.
func (s *Stats) SeeAnchor(a Anchor) {
	if s.anchors == nil {
		s.anchors = make(map[Anchor]struct{})
	}
	s.anchors[a] = struct{}{}
}

// AnchorCount is the number of distinct blocks found.
func (s *Stats) AnchorCount() int { return len(s.anchors) }

// MissingAnchors lists the expected blocks that were never found, in declaration order.
func (s *Stats) MissingAnchors() []Anchor {
	var missing []Anchor
	for _, a := range s.expected {
		if _, ok := s.anchors[a]; !ok {
			missing = append(missing, a)
		}
	}
	return missing
}

// Table is the reconstructed relation for one output file.
type Table struct {
	Family string
	Spec   string
	Dir    string
	Name   string
	Header []string
	Stats  Stats

	rows  []Row
	index map[string]int
}

// NewTable creates an empty table.
func NewTable(family, spec, dir, name string, header []string) *Table {
	return &Table{
		Family: family,
		Spec:   spec,
		Dir:    dir,
		Name:   name,
		Header: header,
		index:  make(map[string]int),
	}
}

// Add appends a row. A row whose key is already present is rejected with
// ErrDuplicateRecord and the table keeps the first one.
func (t *Table) Add(r Row) error {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	k := r.Key()
	if _, ok := t.index[k]; ok {
		return fmt.Errorf("%s/%s key %s: %w", t.Dir, t.Name, k, ErrDuplicateRecord)
	}
	t.index[k] = len(t.rows)
	t.rows = append(t.rows, r)
	return nil
}

// Rows returns the rows in emission order.
func (t *Table) Rows() []Row { return t.rows }

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Keys returns the sorted row keys; two tables with the same keys and fields
// hold the same relation regardless of emission order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.index))
	for k := range t.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the row stored under key.
func (t *Table) Lookup(key string) (Row, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.rows[i], true
}
