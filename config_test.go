// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			MaxConcurrentDocuments: 2,
			MaxConcurrentTables:    4,
			PageTimeout:            5 * time.Second,
			ParsingMode:            BestEffort,
			MaxRetries:             1,
			TextMode:               RowsText,
			OutputFormat:           FormatYAML,
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		shouldErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "valid forced variant", mutate: func(c *Config) { c.Variant = G2Plus }},
		{name: "valid family filter", mutate: func(c *Config) { c.Families = []string{"takeoff"} }},
		{name: "invalid MaxConcurrentDocuments (too low)", mutate: func(c *Config) { c.MaxConcurrentDocuments = 0 }, shouldErr: true},
		{name: "invalid MaxConcurrentTables (too high)", mutate: func(c *Config) { c.MaxConcurrentTables = 11 }, shouldErr: true},
		{name: "missing PageTimeout", mutate: func(c *Config) { c.PageTimeout = 0 }, shouldErr: true},
		{name: "negative RetryDelay", mutate: func(c *Config) { c.RetryDelay = -time.Second }, shouldErr: true},
		{name: "invalid ParsingMode", mutate: func(c *Config) { c.ParsingMode = "invalid-mode" }, shouldErr: true},
		{name: "invalid MaxRetries (too high)", mutate: func(c *Config) { c.MaxRetries = 4 }, shouldErr: true},
		{name: "invalid TextMode", mutate: func(c *Config) { c.TextMode = "columns" }, shouldErr: true},
		{name: "invalid Variant", mutate: func(c *Config) { c.Variant = "g3" }, shouldErr: true},
		{name: "invalid OutputFormat", mutate: func(c *Config) { c.OutputFormat = "xml" }, shouldErr: true},
		{name: "empty family name", mutate: func(c *Config) { c.Families = []string{""} }, shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, BestEffort, cfg.ParsingMode)
	assert.Equal(t, RowsText, cfg.TextMode)
	assert.Equal(t, FormatYAML, cfg.OutputFormat)
}
