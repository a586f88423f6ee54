// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vrefPage() string {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "Landing Reference Speed"
	}
	lines[2] = "UP or UNKNOWN 100 105 110 115 120"
	lines[4] = "50% 90 95 99 98 97"
	lines[6] = "100% 85 88 91 94 97"
	lines[12] = "SPEED HIGH Advisory) 110 115 120 125 130"
	lines[16] = "SPEED HIGH Advisory) 101 106 111 116 119"
	return text(lines...)
}

func TestSpeedAssemble(t *testing.T) {
	job := Job{Family: "vref", Dir: "vref", Pages: []int{1}}

	tables, err := mustSpec(t, VrefG1).Assemble(context.Background(), pages{1: vrefPage()}, job)
	require.NoError(t, err)
	require.Len(t, tables, 5)

	want := map[string][]int{
		"up":     {100, 105, 110, 115, 120},
		"up ice": {110, 115, 120, 125, 130},
		"50 ice": {101, 106, 111, 116, 119},
		"50":     {90, 95, 99, 98, 97},
		"100":    {85, 88, 91, 94, 97},
	}
	for name, values := range want {
		tbl := tableNamed(t, tables, name)
		require.Equal(t, 5, tbl.Len(), name)
		for i, w := range VrefWeights {
			r, ok := tbl.Lookup(SpeedRecord{Weight: w}.Key())
			require.True(t, ok)
			assert.Equal(t, values[i], r.(SpeedRecord).Value, "%s %d", name, w)
		}
		assert.Equal(t, 5, tbl.Stats.Expected)
	}
}

func TestSpeedAssemble_RepeatedLineCollides(t *testing.T) {
	page := text(
		"UP or UNKNOWN 100 105 110 115 120",
		"UP or UNKNOWN 101 106 111 116 121",
	)
	job := Job{Family: "vref", Dir: "vref", Pages: []int{1}}

	tables, err := mustSpec(t, VrefG1).Assemble(context.Background(), pages{1: page}, job)
	require.NoError(t, err)
	up := tableNamed(t, tables, "up")
	assert.Equal(t, 5, up.Stats.Collisions)

	job.Strict = true
	_, err = mustSpec(t, VrefG1).Assemble(context.Background(), pages{1: page}, job)
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestSpeedRuleMatch(t *testing.T) {
	spec, ok := mustSpec(t, VrefG1).(SpeedSpec)
	require.True(t, ok)

	rule, ok := spec.Match(0, "50% 90 95 99 98 97")
	require.True(t, ok)
	assert.Equal(t, "50", rule.Table)

	_, ok = spec.Match(0, "50% flaps landing reference 90 95 99 98 97")
	assert.False(t, ok)

	_, ok = spec.Match(3, "SPEED HIGH Advisory) 110 115 120 125 130")
	assert.False(t, ok, "outside both line windows")
}
