// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sassoftware/viya-afm-xtract/logger"
)

// PageSource yields the text of one 1-based page.
type PageSource interface {
	PageText(ctx context.Context, page int) (string, error)
}

// WeightPages binds a gross weight to the pages that hold its tables.
type WeightPages struct {
	Weight int
	Pages  []int
}

// Job is one table family to reconstruct from a document.
type Job struct {
	Family string
	// Dir is the output directory of the family's tables, relative to the run root.
	Dir string
	// Table names the single output file of families that produce one table.
	Table   string
	Pages   []int
	Weights []WeightPages
	// Expected overrides the nominal row count per table name.
	Expected map[string]int
	// Strict turns record collisions into errors.
	Strict bool
}

// TableSpec reconstructs the tables of one family.
type TableSpec interface {
	Name() string
	Assemble(ctx context.Context, src PageSource, job Job) ([]*Table, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]TableSpec)
)

// Register makes a spec available by name. Registering a name twice panics.
func Register(spec TableSpec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[spec.Name()]; dup {
		panic("afm: spec registered twice: " + spec.Name())
	}
	registry[spec.Name()] = spec
}

// Lookup returns the spec registered under name.
func Lookup(name string) (TableSpec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	spec, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSpec)
	}
	return spec, nil
}

// Specs lists the registered spec names in order.
func Specs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lines splits page text into lines after joining thousands separators.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(JoinThousands(text), "\n")
}

// pageLine is one line of a multi-page scan.
type pageLine struct {
	page int
	text string
}

// readPages concatenates the lines of pages into one stream.
func readPages(ctx context.Context, src PageSource, pages []int) ([]pageLine, error) {
	var out []pageLine
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := src.PageText(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p, err)
		}
		for _, l := range Lines(text) {
			out = append(out, pageLine{page: p, text: l})
		}
	}
	return out, nil
}

// emit adds r to t. A collision keeps the first record; in strict jobs it is
// returned as an error.
func emit(t *Table, r Row, job Job) error {
	err := t.Add(r)
	if err == nil {
		return nil
	}
	t.Stats.Skip(SkipCollision)
	logger.Warn("record collision", "table", t.Dir+"/"+t.Name, "key", r.Key())
	if job.Strict {
		return err
	}
	return nil
}

// skip counts and logs a recovered line.
func skip(t *Table, reason SkipReason, page, line int, text string) {
	t.Stats.Skip(reason)
	logger.Debug("skipped line",
		"table", t.Dir+"/"+t.Name,
		"page", page,
		"line", line,
		"reason", string(reason),
		"text", strings.TrimSpace(text),
		true)
}

// expected returns the configured row count for name, or nominal.
func (j Job) expected(name string, nominal int) int {
	if n, ok := j.Expected[name]; ok {
		return n
	}
	return nominal
}
