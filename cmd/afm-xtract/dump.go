// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	xtract "github.com/sassoftware/viya-afm-xtract"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <manual.pdf>",
	Short: "Write the text of manual pages as page-NNNN.txt files",
	Long: `Dump writes the text each page yields, one file per page. Dumps are the
input of regression fixtures and can be passed back to "afm-xtract extract".

Examples:
  afm-xtract dump AFM_G1.pdf --dir testdata/g1 --pages 271,272,380
  afm-xtract dump AFM.pdf --dir dump --layout-pages --variant g2+`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		doc, err := xtract.OpenPDF(args[0], cfg)
		if err != nil {
			return err
		}
		defer doc.Close()

		pages := viper.GetIntSlice("pages")
		if viper.GetBool("layout-pages") {
			variant := cfg.Variant
			if variant == "" {
				variant = xtract.DetectVariant(args[0], doc.Meta())
			}
			pages, err = layoutPages(cfg.LayoutFile, variant)
			if err != nil {
				return err
			}
		}
		dir := viper.GetString("dir")
		if err := xtract.WriteTextDump(cmd.Context(), doc, dir, pages); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", dir)
		return nil
	},
}

func init() {
	f := dumpCmd.Flags()
	f.String("dir", "dump", "directory for the page files")
	f.IntSlice("pages", nil, "1-based pages to dump (default: all)")
	f.Bool("layout-pages", false, "dump only the pages the layout references")
	f.String("variant", "", "variant whose layout pages to dump: g1 or g2+")
	f.String("layout", "", "page layout file replacing the bundled one")
}

// layoutPages lists every page the layout of variant references.
func layoutPages(layoutFile string, variant xtract.Variant) ([]int, error) {
	l, err := xtract.LoadLayout(layoutFile)
	if err != nil {
		return nil, err
	}
	families, err := l.Families(variant)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var pages []int
	add := func(ps []int) {
		for _, p := range ps {
			if !seen[p] {
				seen[p] = true
				pages = append(pages, p)
			}
		}
	}
	for _, f := range families {
		add(f.Pages)
		for _, w := range f.Weights {
			add(w.Pages)
		}
	}
	sort.Ints(pages)
	return pages, nil
}
