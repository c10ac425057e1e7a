package domain

import (
	"strconv"
	"strings"
)

// Sentinel replaces any cell that fails type-specific validation. The
// literal "-1" is kept for compatibility with the documented legacy cache
// semantics; it overloads "missing" and "malformed".
const Sentinel = "-1"

// Repair maps a raw CSV cell to a text literal that the final type
// conversion for t is guaranteed to accept. It is pure and idempotent:
// applying it to its own output returns the output unchanged.
//
// CalendarDate cells only get the quote strip here; the date itself is
// validated during conversion, where a malformed value fails the build
// (see Column.AppendCell).
func Repair(raw string, t SemanticType) string {
	switch t {
	case SmallInt, MediumInt, LargeInt:
		return repairInt(raw)
	case Float:
		return repairFloat(raw)
	case ClockTime:
		return repairClockTime(raw)
	default:
		// RegionCode, Identifier, ShortText, CalendarDate: quote strip only.
		return stripQuotes(raw)
	}
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// repairInt passes through any quote-stripped base-10 integer and replaces
// everything else with the sentinel. Width truncation to the declared
// integer size happens at conversion, matching the source data's wraparound
// behavior.
func repairInt(raw string) string {
	s := stripQuotes(raw)
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return Sentinel
	}
	return s
}

// repairFloat strips quotes, rewrites the decimal comma to a decimal point,
// and replaces anything that still fails to parse with the sentinel.
func repairFloat(raw string) string {
	s := strings.ReplaceAll(stripQuotes(raw), ",", ".")
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return Sentinel
	}
	return s
}

// repairClockTime decodes the 5-character fixed-width time field: bytes
// [1,3) are hours, [3,5) minutes. Hours above 24 or any parse failure yield
// the sentinel; minutes above 59 keep the hours only. Already repaired
// values ("HH:MM", bare "HH", the sentinel) pass through unchanged so the
// function is idempotent.
func repairClockTime(raw string) string {
	if raw == Sentinel || isRepairedClock(raw) {
		return raw
	}
	if len(raw) < 5 {
		return Sentinel
	}
	hh, mm := raw[1:3], raw[3:5]
	h, err := strconv.Atoi(hh)
	if err != nil || h > 24 {
		return Sentinel
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return Sentinel
	}
	if m > 59 {
		return hh
	}
	return hh + ":" + mm
}

// isRepairedClock matches the two non-sentinel shapes repairClockTime
// emits: "HH:MM" with in-range parts, and bare "HH" up to 24.
func isRepairedClock(s string) bool {
	switch len(s) {
	case 2:
		return isDigits(s) && atoi2(s) <= 24
	case 5:
		return s[2] == ':' && isDigits(s[:2]) && isDigits(s[3:]) &&
			atoi2(s[:2]) <= 24 && atoi2(s[3:]) <= 59
	default:
		return false
	}
}

// atoi2 converts a 2-digit string; callers guarantee digits only.
func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
