// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContaminationAssemble_Water(t *testing.T) {
	src := pages{1: text(
		"Dry Ground Roll Distance Water Depth",
		"1500 1650 1800 1950 2100 2250",
		"2000 2200 2400",
		"2500 2750 3000 3250 3500 3750",
	)}
	job := Job{Family: "contamination-water", Dir: "landing/contamination", Pages: []int{1}}

	tables, err := mustSpec(t, ContaminationWater).Assemble(context.Background(), src, job)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	water := tables[0]

	assert.Equal(t, "water", water.Name)
	assert.Equal(t, DepthHeader, water.Header)
	assert.Equal(t, 12, water.Len())
	assert.Equal(t, 1, water.Stats.Skipped[SkipCardinalityShortfall])

	first := water.Rows()[0].(ContaminationRecord)
	assert.Equal(t, []string{"1500", "0.0", "1500"}, first.Fields())
	assert.Equal(t, []string{"1500", "0.125", "1650"}, water.Rows()[1].Fields())
	assert.Equal(t, []string{"2500", "0.5", "3750"}, water.Rows()[11].Fields())
}

func TestContaminationAssemble_Snow(t *testing.T) {
	src := pages{1: text(
		"1500 1700 1850 2000 2150 2300 1900 1600",
	)}
	job := Job{Family: "contamination-snow", Dir: "landing/contamination", Pages: []int{1}}

	tables, err := mustSpec(t, ContaminationSnow).Assemble(context.Background(), src, job)
	require.NoError(t, err)
	require.Len(t, tables, 3)

	slush := tableNamed(t, tables, "slush, wet snow")
	dry := tableNamed(t, tables, "dry snow")
	compact := tableNamed(t, tables, "compact snow")

	assert.Equal(t, 5, slush.Len())
	assert.Equal(t, DepthHeader, slush.Header)
	assert.Equal(t, DistanceValueHeader, dry.Header)
	assert.Equal(t, []string{"1500", "1900"}, dry.Rows()[0].Fields())
	assert.Equal(t, []string{"1500", "1600"}, compact.Rows()[0].Fields())
}

func TestContaminationTables(t *testing.T) {
	spec, ok := mustSpec(t, ContaminationSnow).(ContaminationSpec)
	require.True(t, ok)
	assert.Equal(t, []string{"slush, wet snow", "dry snow", "compact snow"}, spec.Tables())
}
