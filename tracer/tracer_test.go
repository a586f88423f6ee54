// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tracer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlush(t *testing.T) {
	Log("skipped line", "table", "takeoff/ground run", "line", 12)
	Log("done")
	assert.Equal(t, 2, Len())

	var buf bytes.Buffer
	require.NoError(t, Flush(&buf))
	assert.Equal(t, "skipped line table=takeoff/ground run line=12\ndone\n", buf.String())
	assert.Equal(t, 0, Len())
}
