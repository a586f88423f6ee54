// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sassoftware/viya-afm-xtract/logger"
)

// ShortfallBand lowers the number of values a climb row must carry in the
// corner of the matrix where the heaviest weights are not published.
type ShortfallBand struct {
	MinAltitude    int
	MinTemperature int
	MinValues      int
}

// ClimbSpec reconstructs a climb matrix: one anchor row per altitude at the
// anchor temperature followed by one row per temperature, each row holding a
// value per weight, heaviest first.
type ClimbSpec struct {
	SpecName   string
	Weights    []int
	Classifier Classifier
	// Grid is the printed temperature columns, anchor temperature included.
	Grid []int

	// MinWidth and MaxWidth bound the digit count of a single value.
	MinWidth int
	MaxWidth int

	MinValues int
	Bands     []ShortfallBand
	// ExtraMinValues applies to temperatures outside the regular grid.
	ExtraMinValues int

	// GraceLines is how many unrecognised lines a block tolerates.
	GraceLines int
	// StopMarkers end a block when they appear on a line that is not a row.
	StopMarkers []string
	// Partitions split 0 °C rows whose delimiters were lost.
	Partitions []WidthPattern
}

func (s ClimbSpec) Name() string { return s.SpecName }

// minValues is the number of values a row at (altitude, temperature) needs.
func (s ClimbSpec) minValues(altitude, temperature int) int {
	if !s.Classifier.Temperatures.OnGrid(temperature) && s.ExtraMinValues > 0 {
		return s.ExtraMinValues
	}
	for _, b := range s.Bands {
		if altitude >= b.MinAltitude && temperature >= b.MinTemperature {
			return b.MinValues
		}
	}
	return s.MinValues
}

// RowValues reconstructs the values of a climb row at altitude. It returns a
// skip reason when the row cannot be used.
func (s ClimbSpec) RowValues(row RawRow, altitude int) ([]int, SkipReason) {
	tokens := Tokens(row.Digits)
	concatenated := row.Concatenated ||
		(row.Kind == ClimbTemperatureRow && row.Temperature == 0 && s.Classifier.ConcatenatedZero &&
			!widthsWithin(tokens, s.MinWidth, s.MaxWidth))

	if concatenated && !(len(tokens) >= s.MinValues && widthsWithin(tokens, s.MinWidth, s.MaxWidth)) {
		tokens = Partition(onlyDigits(row.Digits), altitude, s.Partitions)
		if tokens == nil {
			return nil, SkipAmbiguousPartition
		}
	}

	if len(tokens) > len(s.Weights) {
		tokens = tokens[:len(s.Weights)]
	}
	if len(tokens) < s.minValues(altitude, row.Temperature) {
		return nil, SkipCardinalityShortfall
	}
	return Ints(tokens), ""
}

// Assign maps values onto weights. A short row belongs to the lightest
// weights; the heaviest ones are left unrecorded.
func (s ClimbSpec) Assign(altitude, temperature int, values []int) []PerformanceRecord {
	offset := len(s.Weights) - len(values)
	if offset < 0 {
		offset = 0
		values = values[:len(s.Weights)]
	}
	out := make([]PerformanceRecord, 0, len(values))
	for i, v := range values {
		out = append(out, PerformanceRecord{
			Weight:      s.Weights[offset+i],
			Altitude:    altitude,
			Temperature: Degrees(temperature),
			Value:       v,
		})
	}
	return out
}

func (s ClimbSpec) stopsBlock(line string) bool {
	for _, m := range s.StopMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// Assemble runs the SeekAltitude/CollectTemperatures scan over the job's
// pages as a single line stream.
func (s ClimbSpec) Assemble(ctx context.Context, src PageSource, job Job) ([]*Table, error) {
	name := job.Table
	if name == "" {
		name = job.Family
	}
	table := NewTable(job.Family, s.SpecName, job.Dir, name, PerformanceHeader)

	altitudes := s.Classifier.Altitudes.Altitudes()
	for _, alt := range altitudes {
		table.Stats.ExpectAnchor(Anchor{Altitude: alt})
	}

	lines, err := readPages(ctx, src, job.Pages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Family, err)
	}

	actx := NewAltitudeContext()
	extras := 0
	flush := func() error {
		altitude := actx.Altitude
		temps, values := actx.endBlock()
		for _, temp := range temps {
			records := s.Assign(altitude, temp, values[temp])
			if !s.onGrid(temp) {
				extras += len(records)
			}
			for _, r := range records {
				if err := emit(table, r, job); err != nil {
					return err
				}
			}
		}
		logger.Debug("climb block", "table", job.Dir+"/"+name, "altitude", altitude, "temperatures", len(temps))
		return nil
	}

	for idx, pl := range lines {
		row := s.Classifier.Classify(idx, pl.text, actx)

		if row.Reject != "" {
			// A rejected anchor still starts a new altitude; rows after it
			// must not fall into the open block.
			if row.Kind == ClimbAnchorRow && actx.state == collectTemperatures {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			skip(table, row.Reject, pl.page, idx, pl.text)
			if actx.state == collectTemperatures {
				actx.grace++
			}
			continue
		}

		switch row.Kind {
		case ClimbAnchorRow:
			if actx.state == collectTemperatures {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			values, reason := s.RowValues(row, row.Altitude)
			if reason != "" {
				skip(table, reason, pl.page, idx, pl.text)
				continue
			}
			actx.Consume(idx)
			actx.beginBlock(row.Altitude, idx)
			actx.collect(row.Temperature, values)
			table.Stats.SeeAnchor(Anchor{Altitude: row.Altitude})

		case ClimbTemperatureRow:
			if actx.state != collectTemperatures {
				continue
			}
			values, reason := s.RowValues(row, actx.Altitude)
			if reason != "" {
				skip(table, reason, pl.page, idx, pl.text)
				continue
			}
			if !actx.collect(row.Temperature, values) {
				skip(table, SkipDuplicateTemperature, pl.page, idx, pl.text)
				continue
			}
			actx.Consume(idx)

		default:
			if actx.state != collectTemperatures {
				continue
			}
			if s.stopsBlock(pl.text) {
				if err := flush(); err != nil {
					return nil, err
				}
				continue
			}
			if strings.TrimSpace(pl.text) == "" {
				continue
			}
			actx.grace++
			if actx.grace > s.GraceLines {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}
	}
	if actx.state == collectTemperatures {
		if err := flush(); err != nil {
			return nil, err
		}
	}
	table.Stats.Expected = job.expected(name, s.publishedCells(altitudes)+extras)
	return []*Table{table}, nil
}

func (s ClimbSpec) onGrid(temperature int) bool {
	for _, t := range s.Grid {
		if t == temperature {
			return true
		}
	}
	return false
}

// publishedCells counts the grid cells a manual prints. Inside a shortfall
// band only the lightest weights are published.
func (s ClimbSpec) publishedCells(altitudes []int) int {
	n := 0
	for _, alt := range altitudes {
		for _, temp := range s.Grid {
			n += s.publishedWeights(alt, temp)
		}
	}
	return n
}

func (s ClimbSpec) publishedWeights(altitude, temperature int) int {
	for _, b := range s.Bands {
		if altitude >= b.MinAltitude && temperature >= b.MinTemperature && b.MinValues < len(s.Weights) {
			return b.MinValues
		}
	}
	return len(s.Weights)
}
