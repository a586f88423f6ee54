// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// pages is an in-memory PageSource keyed by 1-based page number.
type pages map[int]string

func (p pages) PageText(_ context.Context, page int) (string, error) {
	text, ok := p[page]
	if !ok {
		return "", errors.New("no such page")
	}
	return text, nil
}

func text(lines ...string) string {
	return strings.Join(lines, "\n")
}

func mustSpec(t *testing.T, name string) TableSpec {
	t.Helper()
	spec, err := Lookup(name)
	require.NoError(t, err)
	return spec
}

func tableNamed(t *testing.T, tables []*Table, name string) *Table {
	t.Helper()
	for _, tbl := range tables {
		if tbl.Name == name {
			return tbl
		}
	}
	require.FailNow(t, "table not found", name)
	return nil
}

func perf(t *testing.T, tbl *Table, weight, altitude int, temp Temperature) (int, bool) {
	t.Helper()
	r, ok := tbl.Lookup(PerformanceRecord{Weight: weight, Altitude: altitude, Temperature: temp}.Key())
	if !ok {
		return 0, false
	}
	return r.(PerformanceRecord).Value, true
}
