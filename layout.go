// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/sassoftware/viya-afm-xtract/afm"
	"github.com/sassoftware/viya-afm-xtract/logger"
)

//go:embed layouts/layout.yaml layouts/layout.schema.json
var layoutFS embed.FS

const (
	bundledLayout = "layouts/layout.yaml"
	layoutSchema  = "layouts/layout.schema.json"
)

// Layout maps each manual variant to the pages of its table families.
type Layout struct {
	Variants map[Variant]VariantLayout `yaml:"variants"`
}

// VariantLayout lists the families of one variant in processing order.
type VariantLayout struct {
	Families []FamilyLayout `yaml:"families"`
}

// FamilyLayout locates one table family in a manual.
type FamilyLayout struct {
	Name     string         `yaml:"name"`
	Spec     string         `yaml:"spec"`
	Dir      string         `yaml:"dir"`
	Table    string         `yaml:"table,omitempty"`
	Pages    []int          `yaml:"pages,omitempty"`
	Weights  []WeightLayout `yaml:"weights,omitempty"`
	Expected map[string]int `yaml:"expected,omitempty"`
}

// WeightLayout binds a gross weight to its pages.
type WeightLayout struct {
	Weight int   `yaml:"weight"`
	Pages  []int `yaml:"pages"`
}

// Job converts the family into an engine job.
func (f FamilyLayout) Job(strict bool) afm.Job {
	job := afm.Job{
		Family:   f.Name,
		Dir:      f.Dir,
		Table:    f.Table,
		Pages:    f.Pages,
		Expected: f.Expected,
		Strict:   strict,
	}
	for _, w := range f.Weights {
		job.Weights = append(job.Weights, afm.WeightPages{Weight: w.Weight, Pages: w.Pages})
	}
	return job
}

// Families returns the families of variant.
func (l *Layout) Families(variant Variant) ([]FamilyLayout, error) {
	v, ok := l.Variants[variant]
	if !ok {
		return nil, fmt.Errorf("no layout for variant %q", variant)
	}
	return v.Families, nil
}

// DefaultLayout returns the bundled layout.
func DefaultLayout() (*Layout, error) {
	b, err := layoutFS.ReadFile(bundledLayout)
	if err != nil {
		return nil, err
	}
	return ParseLayout(b)
}

// LoadLayout reads a layout file, or the bundled layout when path is empty.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	l, err := ParseLayout(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("layout loaded", "path", path, true)
	return l, nil
}

// ParseLayout validates and decodes a YAML layout document.
func ParseLayout(b []byte) (*Layout, error) {
	if err := ValidateLayout(b); err != nil {
		return nil, err
	}
	var l Layout
	if err := yaml.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	for variant, v := range l.Variants {
		seen := make(map[string]bool, len(v.Families))
		for _, f := range v.Families {
			if seen[f.Name] {
				return nil, fmt.Errorf("variant %s: family %q listed twice", variant, f.Name)
			}
			seen[f.Name] = true
			if _, err := afm.Lookup(f.Spec); err != nil {
				return nil, fmt.Errorf("variant %s: family %s: %w", variant, f.Name, err)
			}
		}
	}
	return &l, nil
}

// ValidateLayout checks a YAML layout document against the layout schema.
func ValidateLayout(b []byte) error {
	schema, err := compileLayoutSchema()
	if err != nil {
		return err
	}

	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode layout: %w", err)
	}
	// Round trip through JSON so the validator sees JSON types.
	js, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("layout is not representable as JSON: %w", err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("layout does not match schema: %w", err)
	}
	return nil
}

func compileLayoutSchema() (*jsonschema.Schema, error) {
	b, err := layoutFS.ReadFile(layoutSchema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("layout.schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("load layout schema: %w", err)
	}
	schema, err := compiler.Compile("layout.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile layout schema: %w", err)
	}
	return schema, nil
}
