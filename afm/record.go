// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"fmt"
	"strconv"
	"strings"
)

// Temperature is a column label. Printed columns carry whole degrees; the
// reference-atmosphere column carries the computed standard temperature.
type Temperature struct {
	Celsius  float64
	Standard bool
}

// Degrees labels a printed temperature column.
func Degrees(c int) Temperature {
	return Temperature{Celsius: float64(c)}
}

// StandardAt labels the reference-atmosphere column for an altitude.
func StandardAt(altitude int) Temperature {
	return Temperature{Celsius: StandardTemperature(altitude), Standard: true}
}

// String formats printed temperatures as integers and standard temperatures
// with full precision.
func (t Temperature) String() string {
	if t.Standard {
		return formatFloat(t.Celsius)
	}
	return strconv.Itoa(int(t.Celsius))
}

// formatFloat prints the shortest exact representation, always with a decimal point.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Row is one output row of a table.
type Row interface {
	// Key identifies the row within its table; two rows with the same key collide.
	Key() string
	// Fields returns the row's columns in header order.
	Fields() []string
}

// PerformanceRecord is a value keyed by weight, pressure altitude and temperature.
type PerformanceRecord struct {
	Weight      int
	Altitude    int
	Temperature Temperature
	Value       int
}

func (r PerformanceRecord) Key() string {
	return fmt.Sprintf("%d|%d|%t|%s", r.Weight, r.Altitude, r.Temperature.Standard, r.Temperature)
}

func (r PerformanceRecord) Fields() []string {
	return []string{
		strconv.Itoa(r.Weight),
		strconv.Itoa(r.Altitude),
		r.Temperature.String(),
		strconv.Itoa(r.Value),
	}
}

// ContaminationRecord maps a dry ground roll distance, optionally at a
// contaminant depth in inches, onto the contaminated distance.
type ContaminationRecord struct {
	Distance int
	Depth    float64
	HasDepth bool
	Value    int
}

func (r ContaminationRecord) Key() string {
	if !r.HasDepth {
		return strconv.Itoa(r.Distance)
	}
	return fmt.Sprintf("%d|%s", r.Distance, formatFloat(r.Depth))
}

func (r ContaminationRecord) Fields() []string {
	if !r.HasDepth {
		return []string{strconv.Itoa(r.Distance), strconv.Itoa(r.Value)}
	}
	return []string{strconv.Itoa(r.Distance), formatFloat(r.Depth), strconv.Itoa(r.Value)}
}

// SpeedRecord is a reference speed for a landing weight.
type SpeedRecord struct {
	Weight int
	Value  int
}

func (r SpeedRecord) Key() string { return strconv.Itoa(r.Weight) }

func (r SpeedRecord) Fields() []string {
	return []string{strconv.Itoa(r.Weight), strconv.Itoa(r.Value)}
}

// Output headers.
var (
	PerformanceHeader   = []string{"weight", "altitude", "temperature", "value"}
	DepthHeader         = []string{"distance", "depth", "value"}
	DistanceValueHeader = []string{"distance", "value"}
	SpeedHeader         = []string{"weight", "value"}
)
