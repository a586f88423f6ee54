// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"regexp"
	"strconv"
	"strings"
)

// RowKind tags a classified line.
type RowKind int

const (
	NoMatch RowKind = iota
	GroundRunRow
	TotalRow
	ClimbAnchorRow
	ClimbTemperatureRow
)

func (k RowKind) String() string {
	switch k {
	case GroundRunRow:
		return "ground-run"
	case TotalRow:
		return "total"
	case ClimbAnchorRow:
		return "climb-anchor"
	case ClimbTemperatureRow:
		return "climb-temperature"
	}
	return "none"
}

// RawRow is one classified line. It lives for the processing of that line only.
type RawRow struct {
	Kind        RowKind
	Line        int
	Altitude    int
	HasAltitude bool
	Temperature int
	// Digits is the raw numeric content that follows the row label.
	Digits string
	// Concatenated is set when the delimiters between values were lost.
	Concatenated bool
	// Reject explains why a labelled line produced no usable row. Kind still
	// names the label that was recognised. Empty for plain text.
	Reject SkipReason
}

// Mode selects the row grammar.
type Mode int

const (
	DistanceMode Mode = iota
	ClimbMode
)

// SeaLevel is the printed sea-level altitude marker.
const SeaLevel = "SL"

// truncatedTenThousand is what "10,000" leaves behind when the leading "10,"
// is split off the line.
const truncatedTenThousand = "000"

// AltitudeDomain is the set of pressure altitudes a table covers.
type AltitudeDomain struct {
	Max  int
	Step int
}

// Contains reports whether altitude is a grid altitude of the domain.
func (d AltitudeDomain) Contains(altitude int) bool {
	return altitude >= 0 && altitude <= d.Max && d.Step > 0 && altitude%d.Step == 0
}

// Altitudes lists the grid from sea level upward.
func (d AltitudeDomain) Altitudes() []int {
	var out []int
	for a := 0; d.Step > 0 && a <= d.Max; a += d.Step {
		out = append(out, a)
	}
	return out
}

// StandardAltitudes is 0–10000 ft in 1000 ft steps.
var StandardAltitudes = AltitudeDomain{Max: 10000, Step: 1000}

// TemperatureDomain is the set of temperatures a climb row may start with.
type TemperatureDomain struct {
	Min  int
	Max  int
	Step int
	// Extra lists off-grid temperatures that appear as their own rows.
	Extra []int
}

// Contains reports whether t is a known row temperature.
func (d TemperatureDomain) Contains(t int) bool {
	if t < d.Min || t > d.Max {
		return false
	}
	if d.Step <= 1 || (t-d.Min)%d.Step == 0 {
		return true
	}
	for _, x := range d.Extra {
		if x == t {
			return true
		}
	}
	return false
}

// OnGrid reports whether t is one of the regular columns rather than an extra.
func (d TemperatureDomain) OnGrid(t int) bool {
	return d.Step <= 1 || (t-d.Min)%d.Step == 0
}

var (
	groundRunRe   = regexp.MustCompile(`(SL|\d+)\s*Gnd\s*Roll\s*(.*)$`)
	totalOwnRe    = regexp.MustCompile(`^(SL|\d+)\s*Total\s*(.*)$`)
	totalRe       = regexp.MustCompile(`Total\s*(.*)$`)
	climbAnchorRe = regexp.MustCompile(`(\d+)\s*-(\d{1,2})\s+`)
	climbTempRe   = regexp.MustCompile(`^(-?\d{1,2})(?:\s+(.*))?$`)
	gluedZeroRe   = regexp.MustCompile(`^0\d`)
)

// Classifier tags lines for one table family. It reads the context but never
// changes it, so the same line in the same context always yields the same row.
type Classifier struct {
	Mode      Mode
	Altitudes AltitudeDomain

	// TotalLookback is how many lines after its ground-run anchor a total row
	// may appear. Zero pairs a total row with the latest anchor on the page.
	TotalLookback int
	// TotalOwnAltitude lets a total row carry its own altitude prefix.
	TotalOwnAltitude bool
	// TotalExclusions are words that mark a "Total" line as a caption.
	TotalExclusions []string

	AnchorTemperature int
	Temperatures      TemperatureDomain
	ConcatenatedZero  bool
	MinAnchorValues   int
}

// Classify tags line idx of the current scan.
func (c Classifier) Classify(idx int, line string, ctx *AltitudeContext) RawRow {
	line = strings.TrimSpace(line)
	if line == "" || ctx.Consumed(idx) {
		return RawRow{Line: idx}
	}
	if c.Mode == ClimbMode {
		return c.classifyClimb(idx, line, ctx)
	}
	return c.classifyDistance(idx, line, ctx)
}

func (c Classifier) classifyDistance(idx int, line string, ctx *AltitudeContext) RawRow {
	if m := groundRunRe.FindStringSubmatch(line); m != nil {
		row := RawRow{Kind: GroundRunRow, Line: idx, Digits: m[2]}
		if len(Tokens(m[2])) == 0 {
			return RawRow{Line: idx}
		}
		alt, ok := c.NormalizeAltitude(m[1], ctx)
		if !ok {
			return RawRow{Kind: GroundRunRow, Line: idx, Reject: SkipPatternMismatch}
		}
		row.Altitude, row.HasAltitude = alt, true
		return row
	}

	if !strings.Contains(line, "Total") {
		return RawRow{Line: idx}
	}
	for _, word := range c.TotalExclusions {
		if strings.Contains(line, word) {
			return RawRow{Line: idx}
		}
	}
	if c.TotalOwnAltitude {
		if m := totalOwnRe.FindStringSubmatch(line); m != nil {
			if alt, ok := c.NormalizeAltitude(m[1], ctx); ok && len(Tokens(m[2])) > 0 {
				return RawRow{Kind: TotalRow, Line: idx, Altitude: alt, HasAltitude: true, Digits: m[2]}
			}
		}
	}
	m := totalRe.FindStringSubmatch(line)
	if m == nil || len(Tokens(m[1])) == 0 {
		return RawRow{Line: idx}
	}
	if !ctx.HasAltitude {
		return RawRow{Kind: TotalRow, Line: idx, Reject: SkipPatternMismatch}
	}
	if c.TotalLookback > 0 && idx-ctx.AnchorLine > c.TotalLookback {
		return RawRow{Kind: TotalRow, Line: idx, Reject: SkipPatternMismatch}
	}
	return RawRow{Kind: TotalRow, Line: idx, Altitude: ctx.Altitude, HasAltitude: true, Digits: m[1]}
}

// NormalizeAltitude turns an altitude token into feet. The sea-level marker
// and a literal zero are both sea level. A bare "000" is read as a truncated
// 10000 only while 10000 is still unclaimed in this scan; otherwise it is
// rejected rather than guessed.
func (c Classifier) NormalizeAltitude(tok string, ctx *AltitudeContext) (int, bool) {
	if tok == SeaLevel {
		return 0, true
	}
	if tok == truncatedTenThousand {
		const full = 10000
		if c.Altitudes.Contains(full) && !ctx.Seen(full) {
			return full, true
		}
		return 0, false
	}
	if len(tok) > 1 && tok[0] == '0' {
		return 0, false
	}
	alt, err := strconv.Atoi(tok)
	if err != nil || !c.Altitudes.Contains(alt) {
		return 0, false
	}
	return alt, true
}

func (c Classifier) classifyClimb(idx int, line string, ctx *AltitudeContext) RawRow {
	if row, ok := c.climbAnchor(idx, line); ok {
		return row
	}

	if m := climbTempRe.FindStringSubmatch(line); m != nil {
		t, err := strconv.Atoi(m[1])
		if err == nil && c.Temperatures.Contains(t) {
			digits := NumericPrefix(m[2])
			if len(Tokens(digits)) == 0 {
				return RawRow{Line: idx}
			}
			return RawRow{Kind: ClimbTemperatureRow, Line: idx, Temperature: t, Digits: digits}
		}
		return RawRow{Line: idx}
	}

	if c.ConcatenatedZero && gluedZeroRe.MatchString(line) {
		return RawRow{
			Kind:         ClimbTemperatureRow,
			Line:         idx,
			Temperature:  0,
			Digits:       NumericPrefix(line[1:]),
			Concatenated: true,
		}
	}
	return RawRow{Line: idx}
}

// climbAnchor recognises "1000-40 1232 1301 1378 1455" and the same marker
// glued onto page footer text, as in "5-271000-40 ..." or "11 of 461000-40 ...".
func (c Classifier) climbAnchor(idx int, line string) (RawRow, bool) {
	for _, loc := range climbAnchorRe.FindAllStringSubmatchIndex(line, -1) {
		run := line[loc[2]:loc[3]]
		temp, err := strconv.Atoi(line[loc[4]:loc[5]])
		if err != nil || -temp != c.AnchorTemperature {
			continue
		}

		var alt int
		var ok bool
		if loc[0] == 0 {
			alt, ok = c.cleanAltitude(run)
		} else {
			alt, ok = c.embeddedAltitude(run)
		}
		if !ok {
			continue
		}

		digits := NumericPrefix(line[loc[1]:])
		if n := len(Tokens(digits)); n < c.MinAnchorValues {
			return RawRow{Kind: ClimbAnchorRow, Line: idx, Reject: SkipCardinalityShortfall}, true
		}
		return RawRow{
			Kind:        ClimbAnchorRow,
			Line:        idx,
			Altitude:    alt,
			HasAltitude: true,
			Temperature: c.AnchorTemperature,
			Digits:      digits,
		}, true
	}
	return RawRow{}, false
}

func (c Classifier) cleanAltitude(run string) (int, bool) {
	if len(run) > 1 && run[0] == '0' {
		return 0, false
	}
	alt, err := strconv.Atoi(run)
	if err != nil || !c.Altitudes.Contains(alt) {
		return 0, false
	}
	return alt, true
}

// embeddedAltitude resolves a digit run whose head is footer noise by taking
// the longest suffix that is a grid altitude.
func (c Classifier) embeddedAltitude(run string) (int, bool) {
	for i := 0; i < len(run); i++ {
		if alt, ok := c.cleanAltitude(run[i:]); ok {
			return alt, true
		}
	}
	return 0, false
}
