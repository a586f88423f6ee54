// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

// Spec names referenced by layout files.
const (
	TakeoffG1          = "takeoff-g1"
	TakeoffG2Plus      = "takeoff-g2plus"
	LandingG1          = "landing-g1"
	LandingIceG1       = "landing-ice-g1"
	LandingG2Plus      = "landing-g2plus"
	ClimbG1            = "climb-g1"
	ClimbG2Plus        = "climb-g2plus"
	ContaminationWater = "contamination-water-g1"
	ContaminationSnow  = "contamination-snow-g1"
	VrefG1             = "vref-g1"
)

// ClimbWeights are the climb matrix columns, heaviest first.
var ClimbWeights = []int{6000, 5500, 5000, 4500}

// VrefWeights are the reference-speed columns, lightest first.
var VrefWeights = []int{4000, 4500, 5000, 5500, 6000}

// ContaminationDepths are the published contaminant depths in inches.
var ContaminationDepths = []float64{0.125, 0.2, 0.3, 0.4, 0.5}

var (
	takeoffTemperatures    = []int{-20, -10, 0, 10, 20, 30, 40, 50}
	landingTemperatures    = []int{0, 10, 20, 30, 40, 50}
	landingIceTemperatures = []int{-20, -10, 0, 10}
	climbGrid              = []int{-40, -30, -20, -10, 0, 10, 20, 30, 40, 50}
)

// ZeroRowPatterns are the observed width patterns of 0 °C climb rows whose
// spaces were lost. Order matters: the first fitting pattern wins.
var ZeroRowPatterns = []WidthPattern{
	{Name: "10000ft-809", Widths: []int{3, 3, 4, 4}, MinAltitude: 10000, MaxAltitude: 10000, Prefix: "809"},
	{Name: "4-4-4-4", Widths: []int{4, 4, 4, 4}},
	{Name: "3-4-4-4", Widths: []int{3, 4, 4, 4}},
	{Name: "3-4-4-3", Widths: []int{3, 4, 4, 3}},
}

func distanceClassifier(lookback int, ownAltitude bool, exclusions ...string) Classifier {
	return Classifier{
		Mode:             DistanceMode,
		Altitudes:        StandardAltitudes,
		TotalLookback:    lookback,
		TotalOwnAltitude: ownAltitude,
		TotalExclusions:  exclusions,
	}
}

func climbSpec(name string, temps TemperatureDomain, stops ...string) ClimbSpec {
	return ClimbSpec{
		SpecName: name,
		Weights:  ClimbWeights,
		Grid:     climbGrid,
		Classifier: Classifier{
			Mode:              ClimbMode,
			Altitudes:         StandardAltitudes,
			AnchorTemperature: -40,
			Temperatures:      temps,
			ConcatenatedZero:  true,
			MinAnchorValues:   4,
		},
		MinWidth:       3,
		MaxWidth:       4,
		MinValues:      4,
		Bands:          []ShortfallBand{{MinAltitude: 9000, MinTemperature: 40, MinValues: 3}},
		ExtraMinValues: 3,
		GraceLines:     15,
		StopMarkers:    stops,
		Partitions:     ZeroRowPatterns,
	}
}

func depthColumns(table string) []DepthColumn {
	cols := make([]DepthColumn, 0, len(ContaminationDepths))
	for _, d := range ContaminationDepths {
		cols = append(cols, DepthColumn{Table: table, Depth: d, HasDepth: true})
	}
	return cols
}

func init() {
	Register(DistanceSpec{
		SpecName:     TakeoffG1,
		Temperatures: takeoffTemperatures,
		Layout:       TrailingISA,
		Rules:        []ColumnRule{{MinAltitude: 5000, Tokens: []int{9, 8, 7}}},
		Classifier:   distanceClassifier(0, false),
	})
	Register(DistanceSpec{
		SpecName:     TakeoffG2Plus,
		Temperatures: takeoffTemperatures,
		Layout:       TrailingISA,
		Rules:        []ColumnRule{{MinAltitude: 7000}},
		Classifier:   distanceClassifier(4, false, "Takeoff"),
	})
	Register(DistanceSpec{
		SpecName:     LandingG1,
		Temperatures: landingTemperatures,
		Layout:       BracketedISA,
		Classifier:   distanceClassifier(0, false),
	})
	Register(DistanceSpec{
		SpecName:     LandingIceG1,
		Temperatures: landingIceTemperatures,
		Layout:       Ascending,
		Classifier:   distanceClassifier(0, false),
	})
	Register(DistanceSpec{
		SpecName:     LandingG2Plus,
		Temperatures: landingTemperatures,
		Layout:       BracketedISA,
		Classifier:   distanceClassifier(1, true, "Landing"),
	})

	// G1 prints the odd degrees between 40 and 50 as their own rows.
	Register(climbSpec(ClimbG1,
		TemperatureDomain{Min: -40, Max: 50, Step: 10, Extra: []int{41, 42, 43, 44, 45, 46, 47, 48, 49}},
		"Engine", "Press"))
	Register(climbSpec(ClimbG2Plus, TemperatureDomain{Min: -40, Max: 50, Step: 1}))

	Register(ContaminationSpec{
		SpecName:  ContaminationWater,
		MinValues: 5,
		Baseline:  "water",
		Columns:   depthColumns("water"),
	})
	Register(ContaminationSpec{
		SpecName:  ContaminationSnow,
		MinValues: 7,
		Columns: append(depthColumns("slush, wet snow"),
			DepthColumn{Table: "dry snow"},
			DepthColumn{Table: "compact snow"},
		),
	})

	Register(SpeedSpec{
		SpecName: VrefG1,
		Weights:  VrefWeights,
		Rules: []SpeedRule{
			{Table: "up", Contains: "UP or UNKNOWN"},
			{Table: "up ice", Contains: "SPEED HIGH Advisory)", FirstLine: 11, LastLine: 13},
			{Table: "50 ice", Contains: "SPEED HIGH Advisory)", FirstLine: 15, LastLine: 17},
			{Table: "50", Prefix: "50%", MaxLength: 20},
			{Table: "100", Prefix: "100%"},
		},
	})
}
