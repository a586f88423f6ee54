// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	xtract "github.com/sassoftware/viya-afm-xtract"
	"github.com/sassoftware/viya-afm-xtract/afm"
)

var specsCmd = &cobra.Command{
	Use:   "specs",
	Short: "List table specs and the page layout of each variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := xtract.LoadLayout(viper.GetString("layout"))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VARIANT\tFAMILY\tSPEC\tDIR\tPAGES")
		for _, v := range []xtract.Variant{xtract.G1, xtract.G2Plus} {
			families, err := l.Families(v)
			if err != nil {
				continue
			}
			for _, f := range families {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", v, f.Name, f.Spec, f.Dir, pageList(f))
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nregistered specs: %s\n", strings.Join(afm.Specs(), ", "))
		return nil
	},
}

func init() {
	specsCmd.Flags().String("layout", "", "page layout file replacing the bundled one")
}

func pageList(f xtract.FamilyLayout) string {
	if len(f.Weights) == 0 {
		return fmt.Sprint(f.Pages)
	}
	parts := make([]string, 0, len(f.Weights))
	for _, w := range f.Weights {
		parts = append(parts, fmt.Sprintf("%d:%v", w.Weight, w.Pages))
	}
	return strings.Join(parts, " ")
}
