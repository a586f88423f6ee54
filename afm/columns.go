// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	digitRunRe  = regexp.MustCompile(`\d+`)
	thousandsRe = regexp.MustCompile(`(\d),(\d{3})(\D|$)`)
)

// JoinThousands removes grouping commas from numbers: "10,000" becomes "10000".
func JoinThousands(s string) string {
	for {
		next := thousandsRe.ReplaceAllString(s, "$1$2$3")
		if next == s {
			return s
		}
		s = next
	}
}

// Tokens returns the digit runs of s in order.
func Tokens(s string) []string {
	return digitRunRe.FindAllString(JoinThousands(s), -1)
}

// Ints converts digit runs to integers, dropping any that do not parse.
func Ints(tokens []string) []int {
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// NumericPrefix cuts s at the first letter, so trailing captions glued to a
// row ("567Engine Anti-Ice") do not contribute digits.
func NumericPrefix(s string) string {
	if i := strings.IndexFunc(s, unicode.IsLetter); i >= 0 {
		return s[:i]
	}
	return s
}

// onlyDigits strips everything but ASCII digits.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// widthsWithin reports whether every token is between lo and hi digits wide.
func widthsWithin(tokens []string, lo, hi int) bool {
	for _, tok := range tokens {
		if len(tok) < lo || len(tok) > hi {
			return false
		}
	}
	return true
}

// WidthPattern is one observed way a row of values loses its delimiters.
// A pattern applies when its widths add up to the run length, the altitude is
// inside its band and the run starts with Prefix.
type WidthPattern struct {
	Name        string
	Widths      []int
	MinAltitude int
	MaxAltitude int // 0 means no upper bound
	Prefix      string
}

func (p WidthPattern) total() int {
	n := 0
	for _, w := range p.Widths {
		n += w
	}
	return n
}

func (p WidthPattern) fits(digits string, altitude int) bool {
	if p.total() != len(digits) {
		return false
	}
	if altitude < p.MinAltitude || (p.MaxAltitude > 0 && altitude > p.MaxAltitude) {
		return false
	}
	return strings.HasPrefix(digits, p.Prefix)
}

// Partition splits a delimiter-less digit run using the first pattern that
// fits. It returns nil when none does; the caller must not guess.
func Partition(digits string, altitude int, patterns []WidthPattern) []string {
	for _, p := range patterns {
		if !p.fits(digits, altitude) {
			continue
		}
		parts := make([]string, 0, len(p.Widths))
		at := 0
		for _, w := range p.Widths {
			parts = append(parts, digits[at:at+w])
			at += w
		}
		return parts
	}
	return nil
}
