// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sassoftware/viya-afm-xtract/afm"
)

const testDir = "testdata"

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// create a processor with a fake clock and private metrics
func newTestProcessor(t *testing.T, mutate func(*Config)) (*processor, *Config) {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Clock = clockwork.NewFakeClockAt(testNow)
	cfg.Metrics = NewMetricsForTesting()
	if mutate != nil {
		mutate(cfg)
	}
	p, err := NewProcessor(cfg)
	require.NoError(t, err)
	return p, cfg
}

func loadDump(t *testing.T, name string) *TextDocument {
	t.Helper()
	doc, err := LoadTextDump(filepath.Join(testDir, name))
	require.NoError(t, err)
	return doc
}

func findTable(t *testing.T, res *Result, family, name string) *afm.Table {
	t.Helper()
	for _, tbl := range res.Tables {
		if tbl.Family == family && tbl.Name == name {
			return tbl
		}
	}
	require.FailNow(t, "table not found", "%s/%s", family, name)
	return nil
}

func TestNewProcessorInvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MaxConcurrentTables = 0
	_, err := NewProcessor(cfg)
	assert.Error(t, err)

	cfg = NewDefaultConfig()
	cfg.LayoutFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewProcessor(cfg)
	assert.Error(t, err)
}

func TestExtractDocumentTakeoffG2Plus(t *testing.T) {
	p, cfg := newTestProcessor(t, func(c *Config) { c.Families = []string{"takeoff"} })
	doc := loadDump(t, "g2plus")

	res, err := p.ExtractDocument(context.Background(), doc, G2Plus)
	require.NoError(t, err)
	require.Len(t, res.Tables, 2)

	ground := findTable(t, res, "takeoff", afm.GroundRunTable)
	total := findTable(t, res, "takeoff", afm.TotalDistanceTable)
	assert.Equal(t, 3*2*9, ground.Len())
	assert.Equal(t, 3*2*9, total.Len())

	r, ok := ground.Lookup(afm.PerformanceRecord{Weight: 5500, Altitude: 1000, Temperature: afm.StandardAt(1000)}.Key())
	require.True(t, ok)
	assert.Equal(t, 910, r.(afm.PerformanceRecord).Value)

	r, ok = total.Lookup(afm.PerformanceRecord{Weight: 6000, Altitude: 0, Temperature: afm.Degrees(-20)}.Key())
	require.True(t, ok)
	assert.Equal(t, 1050, r.(afm.PerformanceRecord).Value)

	assert.Equal(t, float64(54), testutil.ToFloat64(cfg.Metrics.RecordsEmitted.WithLabelValues("takeoff", afm.GroundRunTable)))
	assert.Equal(t, float64(1), testutil.ToFloat64(cfg.Metrics.DocumentsProcessed.WithLabelValues("g2+", "success")))

	rep := res.Report
	assert.Equal(t, G2Plus, rep.Variant)
	assert.Equal(t, testNow, rep.GeneratedAt)
	assert.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Tables, 2)
	assert.Equal(t, "g2+/takeoff/ground run.csv", rep.Tables[0].Path)
	assert.Equal(t, 3*11*9, rep.Tables[0].Expected)
	assert.Equal(t, 6, rep.Tables[0].Anchors)
	assert.Len(t, rep.Tables[0].Missing, 3*9)
	assert.Len(t, rep.Incomplete(), 2)
}

func TestExtractDocumentG1SpeedAndWater(t *testing.T) {
	p, _ := newTestProcessor(t, func(c *Config) {
		c.Families = []string{"vref", "contamination-water"}
	})
	doc := loadDump(t, "g1")

	res, err := p.ExtractDocument(context.Background(), doc, G1)
	require.NoError(t, err)

	up := findTable(t, res, "vref", "up")
	assert.Equal(t, 5, up.Len())
	fifty := findTable(t, res, "vref", "50")
	assert.Equal(t, []string{"6000", "97"}, fifty.Rows()[4].Fields())

	water := findTable(t, res, "contamination-water", "water")
	assert.Equal(t, 12, water.Len())
	assert.Equal(t, 1, water.Stats.Skipped[afm.SkipCardinalityShortfall])
}

func TestExtractDocumentStrictCollision(t *testing.T) {
	doc := NewTextDocument("dup", map[int]string{380: "UP or UNKNOWN 100 105 110 115 120\nUP or UNKNOWN 101 106 111 116 121"})

	p, _ := newTestProcessor(t, func(c *Config) {
		c.Families = []string{"vref"}
		c.ParsingMode = Strict
	})
	_, err := p.ExtractDocument(context.Background(), doc, G1)
	assert.ErrorIs(t, err, afm.ErrDuplicateRecord)

	p, _ = newTestProcessor(t, func(c *Config) { c.Families = []string{"vref"} })
	res, err := p.ExtractDocument(context.Background(), doc, G1)
	require.NoError(t, err)
	up := findTable(t, res, "vref", "up")
	assert.Equal(t, 5, up.Stats.Collisions)
	r, ok := up.Lookup(afm.SpeedRecord{Weight: 4000}.Key())
	require.True(t, ok)
	assert.Equal(t, 100, r.(afm.SpeedRecord).Value, "first record is kept")
}

func TestExtractDocumentShortDocument(t *testing.T) {
	p, cfg := newTestProcessor(t, nil)
	doc := NewTextDocument("short", map[int]string{1: "cover"})

	_, err := p.ExtractDocument(context.Background(), doc, G1)
	assert.ErrorIs(t, err, afm.ErrStructural)
	assert.Equal(t, float64(1), testutil.ToFloat64(cfg.Metrics.DocumentsProcessed.WithLabelValues("g1", "error")))
}

func TestExtractDocumentUnknownFamily(t *testing.T) {
	p, _ := newTestProcessor(t, func(c *Config) { c.Families = []string{"landing-50-ice"} })
	_, err := p.ExtractDocument(context.Background(), loadDump(t, "g2plus"), G2Plus)
	assert.ErrorContains(t, err, "landing-50-ice")
}

func TestExtractDocumentCancelled(t *testing.T) {
	p, _ := newTestProcessor(t, func(c *Config) { c.Families = []string{"takeoff"} })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.ExtractDocument(ctx, loadDump(t, "g2plus"), G2Plus)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractMissingFile(t *testing.T) {
	p, _ := newTestProcessor(t, nil)
	_, err := p.Extract(context.Background(), filepath.Join(t.TempDir(), "AFM_G1.pdf"))
	assert.ErrorIs(t, err, afm.ErrStructural)
}

func TestProcessorWrite(t *testing.T) {
	p, _ := newTestProcessor(t, func(c *Config) { c.Families = []string{"takeoff"} })
	res, err := p.ExtractDocument(context.Background(), loadDump(t, "g2plus"), G2Plus)
	require.NoError(t, err)

	out := t.TempDir()
	reportPath, err := p.Write(res, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "g2+", "completeness.yaml"), reportPath)

	b, err := os.ReadFile(filepath.Join(out, "g2+", "takeoff", "ground run.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "weight,altitude,temperature,value\n6000,0,-20,550\n")
	assert.Contains(t, string(b), "6000,0,15.0,910\n")

	var rep Report
	b, err = os.ReadFile(reportPath)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(b, &rep))
	assert.Equal(t, res.Report.RunID, rep.RunID)
	assert.Len(t, rep.Tables, 2)
}
