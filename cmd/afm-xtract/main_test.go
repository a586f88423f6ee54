// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xtract "github.com/sassoftware/viya-afm-xtract"
	"github.com/sassoftware/viya-afm-xtract/logger"
)

func TestLogFuncLevels(t *testing.T) {
	var buf bytes.Buffer
	log := logFunc(newSlog(&buf, "warn", "json"))

	log(logger.InfoLevel, "hidden")
	log(logger.WarnLevel, "record collision", "table", "vref/up")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "record collision", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "vref/up", entry["table"])
}

func TestNewSlogDefaults(t *testing.T) {
	var buf bytes.Buffer
	l := newSlog(&buf, "loud", "text")
	l.Debug("hidden")
	l.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestDumpVariant(t *testing.T) {
	assert.Equal(t, xtract.G2Plus, dumpVariant("testdata/g2plus"))
	assert.Equal(t, xtract.G1, dumpVariant("testdata/g1/"))
	assert.Equal(t, xtract.G2Plus, dumpVariant("dump"))
}

func TestLayoutPages(t *testing.T) {
	pages, err := layoutPages("", xtract.G2Plus)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 7, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 23, 25, 27, 29}, pages)

	_, err = layoutPages("", "g9")
	assert.Error(t, err)
}

func TestPageList(t *testing.T) {
	assert.Equal(t, "[380]", pageList(xtract.FamilyLayout{Pages: []int{380}}))
	assert.Equal(t, "6000:[5] 5500:[7]", pageList(xtract.FamilyLayout{Weights: []xtract.WeightLayout{
		{Weight: 6000, Pages: []int{5}},
		{Weight: 5500, Pages: []int{7}},
	}}))
}

func TestVariantClaims(t *testing.T) {
	c := newVariantClaims()
	require.NoError(t, c.claim(xtract.G1, "AFM_G1.pdf"))
	require.NoError(t, c.claim(xtract.G2Plus, "AFM_G2.pdf"))
	require.NoError(t, c.claim(xtract.G1, "AFM_G1.pdf"))

	err := c.claim(xtract.G1, "testdata/g1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AFM_G1.pdf")
}
