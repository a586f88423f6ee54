// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import "sort"

// climbState is the state of the climb-matrix scanner.
type climbState int

const (
	seekAltitude climbState = iota
	collectTemperatures
)

func (s climbState) String() string {
	if s == collectTemperatures {
		return "CollectTemperatures"
	}
	return "SeekAltitude"
}

// AltitudeContext is the scan state threaded between classification calls of
// one page-range scan. It is never shared between table families.
type AltitudeContext struct {
	Altitude    int
	HasAltitude bool
	AnchorLine  int

	consumed map[int]struct{}
	seen     map[int]struct{}

	// climb matrices only
	state climbState
	grace int
	temps map[int][]int
}

// NewAltitudeContext returns an empty context.
func NewAltitudeContext() *AltitudeContext {
	return &AltitudeContext{
		consumed: make(map[int]struct{}),
		seen:     make(map[int]struct{}),
	}
}

// Anchor moves the context to a new altitude established on line.
func (c *AltitudeContext) Anchor(altitude, line int) {
	c.Altitude = altitude
	c.HasAltitude = true
	c.AnchorLine = line
	c.seen[altitude] = struct{}{}
}

// Seen reports whether altitude has already been anchored in this scan.
func (c *AltitudeContext) Seen(altitude int) bool {
	_, ok := c.seen[altitude]
	return ok
}

// Consume marks a line as used so no second pattern can count it again.
func (c *AltitudeContext) Consume(line int) {
	c.consumed[line] = struct{}{}
}

// Consumed reports whether a line has already produced a row.
func (c *AltitudeContext) Consumed(line int) bool {
	_, ok := c.consumed[line]
	return ok
}

// Release drops the current altitude, as at a page break. Seen altitudes and
// consumed lines are kept.
func (c *AltitudeContext) Release() {
	c.Altitude = 0
	c.HasAltitude = false
	c.AnchorLine = 0
}

// Reset clears everything, as at the start of a new scan.
func (c *AltitudeContext) Reset() {
	*c = *NewAltitudeContext()
}

// beginBlock starts collecting a climb-matrix altitude block.
func (c *AltitudeContext) beginBlock(altitude, line int) {
	c.Anchor(altitude, line)
	c.state = collectTemperatures
	c.grace = 0
	c.temps = make(map[int][]int)
}

// collect stores the values of one temperature row. It returns false when the
// temperature is already present in the block.
func (c *AltitudeContext) collect(temperature int, values []int) bool {
	if _, dup := c.temps[temperature]; dup {
		return false
	}
	c.temps[temperature] = values
	return true
}

// endBlock returns the collected temperatures in ascending order with their
// values and returns the context to SeekAltitude.
func (c *AltitudeContext) endBlock() ([]int, map[int][]int) {
	temps := make([]int, 0, len(c.temps))
	for t := range c.temps {
		temps = append(temps, t)
	}
	sort.Ints(temps)
	collected := c.temps
	c.temps = nil
	c.state = seekAltitude
	c.grace = 0
	return temps, collected
}
