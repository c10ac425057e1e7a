// Package domain models the Czech national traffic-accident statistics
// dataset and the repair rules that make its CSV exports loadable.
//
// # Data Source
//
// The police statistics portal publishes one ZIP archive per reporting
// period: an annual rollup per completed year plus a cumulative archive for
// the current year, updated monthly. Each archive contains one CSV member
// per administrative region, named by a fixed 2-digit code ("00.csv" for
// Prague through "19.csv" for Karlovy Vary). The 14 region codes and their
// member names are closed sets; see [RegionFile].
//
// # CSV Conventions
//
// Members are semicolon-delimited with no header row, encoded in a
// Central-European 8-bit code page (decoded here as Windows-1250). Values
// are optionally wrapped in double quotes, which are part of the raw bytes,
// not CSV quoting: the quoted time field "0845" arrives as six characters.
// Floats use the decimal comma ("12,5"). Integer cells may be empty, "XX",
// or otherwise malformed.
//
// Each data row has 64 columns. The loaded table prepends a constant
// region-code column, giving the canonical 65-column shape of [Schema].
//
// # Repair Policy
//
// Before conversion every cell passes through [Repair], which guarantees
// the final typed conversion cannot fail:
//
//	integers:   quote strip; non-integers become the sentinel "-1"
//	floats:     quote strip, comma → point; failures become "-1"
//	clock time: fixed-width "HHMM" inside quotes → "HH:MM"; hours > 24
//	            become "-1"; minutes > 59 keep the bare "HH"
//	text:       quote strip only
//	dates:      quote strip only; the date is validated at conversion and
//	            a malformed value fails the whole build
//
// The sentinel -1 deliberately overloads "missing" and "malformed", for
// compatibility with the legacy cache files consumers already read.
package domain
