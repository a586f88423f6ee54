// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sassoftware/viya-afm-xtract/logger"
)

// Variant is the airframe generation a manual covers.
type Variant string

const (
	G1     Variant = "g1"
	G2Plus Variant = "g2+"
)

// Meta is the document metadata recorded in the completeness report.
type Meta struct {
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	Producer     string `json:"producer,omitempty" yaml:"producer,omitempty"`
	CreationDate string `json:"creationDate,omitempty" yaml:"creationDate,omitempty"`
}

// DetectVariant decides the manual variant from its title, falling back to
// the file name. Manuals whose name does not mention G1 are G2+.
func DetectVariant(path string, meta Meta) Variant {
	title := strings.ToUpper(meta.Title)
	switch {
	case strings.Contains(title, "G2"):
		return G2Plus
	case strings.Contains(title, "G1"):
		return G1
	}
	if strings.Contains(strings.ToUpper(filepath.Base(path)), "G1") {
		return G1
	}
	return G2Plus
}

const dcNamespace = "http://purl.org/dc/elements/1.1/"

// readInfo extracts metadata stored in the PDF's /Info dictionary.
func readInfo(r *pdf.Reader) Meta {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		logger.Debug("no Info dictionary")
		return Meta{}
	}
	return Meta{
		Title:        strings.TrimSpace(info.Key("Title").Text()),
		Producer:     strings.TrimSpace(info.Key("Producer").Text()),
		CreationDate: info.Key("CreationDate").Text(),
	}
}

// readXMP returns the raw XMP packet from /Root/Metadata, or nil.
func readXMP(r *pdf.Reader) ([]byte, error) {
	md := r.Trailer().Key("Root").Key("Metadata")
	if md.Kind() != pdf.Stream {
		return nil, nil
	}
	rc := md.Reader()
	defer rc.Close()
	return io.ReadAll(rc)
}

// xmpTitle returns the first dc:title entry of an XMP packet. Publishing
// tools often update the XMP title but leave /Info stale.
func xmpTitle(packet []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(packet))
	dec.Strict = false
	inTitle := false
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if isDCTitle(el.Name) {
				inTitle = true
			}
		case xml.CharData:
			if inTitle {
				b.Write(el)
			}
		case xml.EndElement:
			if inTitle && el.Name.Local == "li" && strings.TrimSpace(b.String()) != "" {
				return strings.TrimSpace(b.String())
			}
			if isDCTitle(el.Name) {
				return strings.TrimSpace(b.String())
			}
		}
	}
}

// isDCTitle also accepts an undeclared "dc" prefix.
func isDCTitle(n xml.Name) bool {
	return n.Local == "title" && (n.Space == dcNamespace || n.Space == "dc")
}

// readMetadata reads /Info; an XMP title replaces the /Info one.
func readMetadata(r *pdf.Reader) (Meta, error) {
	m := readInfo(r)
	packet, err := readXMP(r)
	if err != nil {
		return m, fmt.Errorf("xmp: %w", err)
	}
	if t := xmpTitle(packet); t != "" {
		m.Title = t
	}
	logger.Debug("metadata extracted", "title", m.Title, true)
	return m, nil
}
