// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/sassoftware/viya-afm-xtract/logger"
)

type ParsingMode string

const (
	Strict     ParsingMode = "strict"
	BestEffort ParsingMode = "best-effort"
)

// TextMode selects how page text is rebuilt from the PDF content stream.
type TextMode string

const (
	// RowsText groups glyphs by baseline and orders them left to right.
	RowsText TextMode = "rows"
	// PlainText keeps content stream order.
	PlainText TextMode = "plain"
)

// Output formats of the completeness report.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type Config struct {
	MaxConcurrentDocuments int           `validate:"min=1,max=10"`
	MaxConcurrentTables    int           `validate:"min=1,max=10"`
	PageTimeout            time.Duration `validate:"required"`
	RetryDelay             time.Duration `validate:"min=0"`
	ParsingMode            ParsingMode   `validate:"oneof=strict best-effort"`
	MaxRetries             int           `validate:"min=0,max=3"`
	TextMode               TextMode      `validate:"oneof=rows plain"`
	// Variant forces the manual variant; empty detects it from the document.
	Variant      Variant `validate:"omitempty,oneof=g1 g2+"`
	OutputFormat string  `validate:"oneof=yaml json"`
	// LayoutFile replaces the bundled page layout.
	LayoutFile string
	// Families limits a run to the named table families.
	Families []string `validate:"dive,required"`
	DebugOn  bool
	Logger   logger.LogFunc
	Metrics  *Metrics        `validate:"-"`
	Clock    clockwork.Clock `validate:"-"`
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentDocuments: 2,
		MaxConcurrentTables:    4,
		PageTimeout:            10 * time.Second,
		RetryDelay:             100 * time.Millisecond,
		ParsingMode:            BestEffort,
		MaxRetries:             2,
		TextMode:               RowsText,
		OutputFormat:           FormatYAML,
		DebugOn:                false,
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}

func (cfg *Config) strict() bool {
	return cfg.ParsingMode == Strict
}
