// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	xtract "github.com/sassoftware/viya-afm-xtract"
	"github.com/sassoftware/viya-afm-xtract/logger"
	"github.com/sassoftware/viya-afm-xtract/tracer"
)

var extractCmd = &cobra.Command{
	Use:   "extract <manual.pdf|dump-dir>...",
	Short: "Rebuild the performance tables of one or more manuals",
	Long: `Extract reads each manual and writes its tables below the output directory:

  <out>/<variant>/takeoff/ground run.csv
  <out>/<variant>/takeoff climb/gradient.csv
  <out>/<variant>/completeness.yaml

Arguments may also be page dump directories written by "afm-xtract dump".
Each variant may come from only one manual per run.

Examples:
  afm-xtract extract AFM_G1.pdf --out tables
  afm-xtract extract AFM.pdf --variant g2+ --family takeoff --family climb-rate
  afm-xtract extract testdata/g2plus --variant g2+ --parsing-mode strict`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringP("out", "o", "out", "output directory")
	f.String("variant", "", "force the manual variant: g1 or g2+")
	f.StringSlice("family", nil, "only rebuild the named table families")
	f.String("layout", "", "page layout file replacing the bundled one")
	f.String("format", xtract.FormatYAML, "completeness report format: yaml or json")
	f.Int("max-documents", 2, "manuals processed at once")
	f.Int("max-tables", 4, "table families rebuilt at once per manual")
	f.String("metrics-file", "", "write Prometheus metrics to this file when done")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := buildConfig()

	reg := prometheus.NewRegistry()
	cfg.Metrics = xtract.NewMetrics(reg)

	proc, err := xtract.NewProcessor(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cfg.DebugOn {
			_ = tracer.Flush(os.Stderr)
		}
	}()

	out := viper.GetString("out")
	claims := newVariantClaims()
	g, gctx := errgroup.WithContext(ctx)
	for _, arg := range args {
		arg := arg
		g.Go(func() error {
			return extractOne(gctx, proc, cfg, claims, arg, out)
		})
	}
	runErr := g.Wait()

	if path := viper.GetString("metrics-file"); path != "" {
		if err := xtract.WriteMetrics(path, reg); err != nil {
			logger.Error("metrics not written", "path", path, "err", err)
		}
	}
	return runErr
}

func extractOne(ctx context.Context, proc xtract.Processor, cfg *xtract.Config, claims *variantClaims, arg, out string) error {
	res, err := extractSource(ctx, proc, cfg, arg)
	if err != nil {
		return fmt.Errorf("%s: %w", arg, err)
	}
	if err := claims.claim(res.Variant, arg); err != nil {
		return err
	}
	if err := res.WriteTables(xtract.CSVSink{Root: out}); err != nil {
		return err
	}
	path, err := res.Report.WriteTo(out, cfg.OutputFormat)
	if err != nil {
		return err
	}

	rows := 0
	for _, t := range res.Tables {
		rows += t.Len()
	}
	logger.Info("manual done",
		"source", arg,
		"variant", string(res.Variant),
		"tables", len(res.Tables),
		"rows", rows,
		"incomplete", len(res.Report.Incomplete()),
		"report", path)
	return nil
}

// variantClaims gives each variant output directory to one source per run.
type variantClaims struct {
	mu     sync.Mutex
	owners map[xtract.Variant]string
}

func newVariantClaims() *variantClaims {
	return &variantClaims{owners: make(map[xtract.Variant]string)}
}

func (c *variantClaims) claim(v xtract.Variant, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if owner, ok := c.owners[v]; ok && owner != source {
		return fmt.Errorf("%s: variant %s is already written by %s in this run", source, v, owner)
	}
	c.owners[v] = source
	return nil
}

// extractSource reads a PDF, or a page dump directory.
func extractSource(ctx context.Context, proc xtract.Processor, cfg *xtract.Config, arg string) (*xtract.Result, error) {
	fi, err := os.Stat(arg)
	if err != nil || !fi.IsDir() {
		return proc.Extract(ctx, arg)
	}
	doc, err := xtract.LoadTextDump(arg)
	if err != nil {
		return nil, err
	}
	variant := cfg.Variant
	if variant == "" {
		variant = dumpVariant(arg)
	}
	return proc.ExtractDocument(ctx, doc, variant)
}

// dumpVariant guesses the variant of a dump directory from its name.
func dumpVariant(dir string) xtract.Variant {
	name := strings.ToLower(filepath.Base(filepath.Clean(dir)))
	if strings.Contains(name, "g2") {
		return xtract.G2Plus
	}
	return xtract.DetectVariant(dir, xtract.Meta{})
}
