// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sassoftware/viya-afm-xtract/afm"
	"github.com/sassoftware/viya-afm-xtract/logger"
)

// Sink persists reconstructed tables.
type Sink interface {
	Write(variant Variant, t *afm.Table) error
}

// TablePath is the output path of t relative to a run root.
func TablePath(variant Variant, t *afm.Table) string {
	return filepath.Join(string(variant), filepath.FromSlash(t.Dir), t.Name+".csv")
}

// CSVSink writes one CSV file per table under Root.
type CSVSink struct {
	Root string
}

func (s CSVSink) Write(variant Variant, t *afm.Table) error {
	path := filepath.Join(s.Root, TablePath(variant, t))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Debug("table written", "path", path, "rows", t.Len(), true)
	return nil
}

// WriteCSV writes the header and rows of t with Unix line endings.
func WriteCSV(w io.Writer, t *afm.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, r := range t.Rows() {
		if err := cw.Write(r.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MemorySink keeps written tables keyed by TablePath.
type MemorySink struct {
	mu     sync.Mutex
	Tables map[string]*afm.Table
}

func (s *MemorySink) Write(variant Variant, t *afm.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Tables == nil {
		s.Tables = make(map[string]*afm.Table)
	}
	s.Tables[filepath.ToSlash(TablePath(variant, t))] = t
	return nil
}
