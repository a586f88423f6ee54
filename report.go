// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sassoftware/viya-afm-xtract/afm"
	"github.com/sassoftware/viya-afm-xtract/logger"
)

// Report summarises how complete the tables of one document are.
type Report struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	Document    string        `json:"document" yaml:"document"`
	Variant     Variant       `json:"variant" yaml:"variant"`
	Meta        Meta          `json:"meta,omitempty" yaml:"meta,omitempty"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	Tables      []TableReport `json:"tables" yaml:"tables"`
}

// TableReport is the completeness of one table.
type TableReport struct {
	Family   string `json:"family" yaml:"family"`
	Spec     string `json:"spec" yaml:"spec"`
	Table    string `json:"table" yaml:"table"`
	Path     string `json:"path" yaml:"path"`
	Expected int    `json:"expected" yaml:"expected"`
	Emitted  int    `json:"emitted" yaml:"emitted"`
	// Coverage is Emitted/Expected; zero when nothing is expected.
	Coverage   float64        `json:"coverage" yaml:"coverage"`
	Anchors    int            `json:"anchors" yaml:"anchors"`
	Skipped    map[string]int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Collisions int            `json:"collisions" yaml:"collisions"`
	Missing    []string       `json:"missing_anchors,omitempty" yaml:"missing_anchors,omitempty"`
}

// NewTableReport summarises t.
func NewTableReport(variant Variant, t *afm.Table) TableReport {
	tr := TableReport{
		Family:     t.Family,
		Spec:       t.Spec,
		Table:      t.Name,
		Path:       filepath.ToSlash(TablePath(variant, t)),
		Expected:   t.Stats.Expected,
		Emitted:    t.Len(),
		Anchors:    t.Stats.AnchorCount(),
		Collisions: t.Stats.Collisions,
	}
	if tr.Expected > 0 {
		tr.Coverage = float64(tr.Emitted) / float64(tr.Expected)
	}
	for reason, n := range t.Stats.Skipped {
		if tr.Skipped == nil {
			tr.Skipped = make(map[string]int)
		}
		tr.Skipped[string(reason)] = n
	}
	for _, a := range t.Stats.MissingAnchors() {
		tr.Missing = append(tr.Missing, a.String())
	}
	return tr
}

// Incomplete lists the tables that emitted fewer rows than expected.
func (r *Report) Incomplete() []TableReport {
	var out []TableReport
	for _, t := range r.Tables {
		if t.Expected > 0 && t.Emitted < t.Expected {
			out = append(out, t)
		}
	}
	return out
}

func (r *Report) sortTables() {
	sort.SliceStable(r.Tables, func(i, j int) bool { return r.Tables[i].Path < r.Tables[j].Path })
}

// Encode writes the report in format (yaml or json).
func (r *Report) Encode(w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// WriteTo writes <root>/<variant>/completeness.<format> and returns its path.
func (r *Report) WriteTo(root, format string) (string, error) {
	if format == "" {
		format = FormatYAML
	}
	dir := filepath.Join(root, string(r.Variant))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "completeness."+format)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := r.Encode(f, format); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	logger.Debug("report written", "path", path, true)
	return path, nil
}

// logSummary reports incomplete tables at warn level and the rest at info.
func (r *Report) logSummary() {
	for _, t := range r.Tables {
		kv := []interface{}{
			"variant", string(r.Variant),
			"table", t.Path,
			"emitted", t.Emitted,
			"expected", t.Expected,
			"collisions", t.Collisions,
		}
		if t.Expected > 0 && t.Emitted < t.Expected {
			logger.Warn("table incomplete", append(kv, "missing_anchors", len(t.Missing))...)
			continue
		}
		logger.Info("table complete", kv...)
	}
}
