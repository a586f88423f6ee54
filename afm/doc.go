// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package afm rebuilds aircraft flight manual performance tables from the
// plain text of their pages.
//
// Page text arrives without column boundaries. A Classifier tags each line
// (ground-run anchor, total row, climb altitude anchor, climb temperature
// row) using an AltitudeContext threaded through one scan. A TableSpec then
// assigns the numbers of each row to temperature columns and weights and
// emits keyed records into Tables.
//
// Conventions:
//   - Altitudes are pressure altitudes in feet; "SL" is 0.
//   - Temperatures are whole °C, except the reference-atmosphere column whose
//     value comes from StandardTemperature and keeps full float precision.
//   - Distances are feet, speeds knots, contaminant depths inches.
//   - Pages are 1-based.
//
// Rows that cannot be placed are skipped, counted in Stats and logged; they
// never abort a table. A second record for a key already in a table is a
// collision and is never written over the first.
package afm
