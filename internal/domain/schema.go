package domain

// SemanticType classifies how a raw CSV cell is repaired and which typed
// backing array it lands in.
type SemanticType int

const (
	// RegionCode is the synthesized 3-letter region column (never read from CSV).
	RegionCode SemanticType = iota
	// Identifier is the opaque accident ID, up to 12 characters.
	Identifier
	// SmallInt is a 1-byte signed integer.
	SmallInt
	// MediumInt is a 2-byte signed integer.
	MediumInt
	// LargeInt is a 4-byte signed integer.
	LargeInt
	// Float is an IEEE double parsed from comma-decimal notation.
	Float
	// CalendarDate is a YYYY-MM-DD date.
	CalendarDate
	// ClockTime is an "HH:MM" string, bare "HH" when minutes are invalid,
	// or the sentinel.
	ClockTime
	// ShortText is free unicode of bounded length, no validation.
	ShortText
)

// String returns the lowercase type name used in logs and metric labels.
func (t SemanticType) String() string {
	switch t {
	case RegionCode:
		return "region-code"
	case Identifier:
		return "identifier"
	case SmallInt:
		return "small-int"
	case MediumInt:
		return "medium-int"
	case LargeInt:
		return "large-int"
	case Float:
		return "float"
	case CalendarDate:
		return "calendar-date"
	case ClockTime:
		return "clock-time"
	case ShortText:
		return "short-text"
	default:
		return "unknown"
	}
}

// ColumnDef describes one column of the accident table. Display names come
// from the published dataset legend and are not necessarily unique.
type ColumnDef struct {
	Name string
	Type SemanticType
}

// columns is the canonical ordered schema. Index order is the column order
// of every table this package ever produces. Index 0 is the synthesized
// region column; indices 1..64 map to CSV data columns 0..63.
var columns = [NumColumns]ColumnDef{
	{"Region", RegionCode},
	{"ID", Identifier},
	{"Communication type", SmallInt},
	{"Communication number", LargeInt},
	{"YYYY-MM-DD", CalendarDate},
	{"Weekday", SmallInt},
	{"Time", ClockTime},
	{"Accident type", SmallInt},
	{"Moving vehicles crash type", SmallInt},
	{"Fixed obstacle type", SmallInt},
	{"Accident specific", SmallInt},
	{"Accident culprit", SmallInt},
	{"Culprit alcohol level", SmallInt},
	{"Accident main causes", MediumInt},
	{"Persons killed", SmallInt},
	{"Persons seriously injured", SmallInt},
	{"Persons slightly injured", SmallInt},
	{"Total material damage", LargeInt},
	{"Road surface type", SmallInt},
	{"Road surface condition", SmallInt},
	{"Communication condition", SmallInt},
	{"Wind condition", SmallInt},
	{"Visibility", SmallInt},
	{"Visional condition", SmallInt},
	{"Communication division", SmallInt},
	{"Accident location", SmallInt},
	{"Accident driving management", SmallInt},
	{"Driving priorities adjustment", SmallInt},
	{"Accident specific objects", SmallInt},
	{"Directions conditions", SmallInt},
	{"Number of vehicles", SmallInt},
	{"Accident city", SmallInt},
	{"Cross type", SmallInt},
	{"Vehicle type", SmallInt},
	{"Vehicle mark", SmallInt},
	{"Manufacture year", SmallInt},
	{"Vehicle characteristic", SmallInt},
	{"Skid", SmallInt},
	{"Vehicle after accident", SmallInt},
	{"Materials transported", SmallInt},
	{"Method of persons releasing", SmallInt},
	{"Direction of driving", MediumInt},
	{"Vehicle damage", MediumInt},
	{"Driver category", SmallInt},
	{"Driver state", SmallInt},
	{"External influence", SmallInt},
	{"a", Float},
	{"b", Float},
	{"GPS:X", Float},
	{"GPS:Y", Float},
	{"f", Float},
	{"g", Float},
	{"h", ShortText},
	{"i", ShortText},
	{"j", ShortText},
	{"k", ShortText},
	{"l", ShortText},
	{"n", ShortText},
	{"o", ShortText},
	{"p", ShortText},
	{"q", ShortText},
	{"r", ShortText},
	{"s", ShortText},
	{"t", ShortText},
	{"Accident area", SmallInt},
}

// NumColumns is the full table width: 64 CSV data columns plus the region column.
const NumColumns = 65

// Schema returns the canonical ordered column definitions. The returned
// slice is shared; callers must not modify it.
func Schema() []ColumnDef {
	return columns[:]
}

// ColumnNames returns the 65 display names in canonical order.
func ColumnNames() []string {
	names := make([]string, NumColumns)
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// regionFiles maps each supported region code to the CSV member name its
// rows live under inside every archive. The set is closed; it is never
// inferred from data.
var regionFiles = map[string]string{
	"PHA": "00.csv",
	"STC": "01.csv",
	"JHC": "02.csv",
	"PLK": "03.csv",
	"ULK": "04.csv",
	"HKK": "05.csv",
	"JHM": "06.csv",
	"MSK": "07.csv",
	"OLK": "14.csv",
	"ZLK": "15.csv",
	"VYS": "16.csv",
	"PAK": "17.csv",
	"LBK": "18.csv",
	"KVK": "19.csv",
}

// regionOrder fixes the declaration order used when no explicit region list
// is requested.
var regionOrder = []string{
	"PHA", "STC", "JHC", "PLK", "ULK", "HKK", "JHM",
	"MSK", "OLK", "ZLK", "VYS", "PAK", "LBK", "KVK",
}

// Regions returns all supported region codes in declaration order. The
// returned slice is shared; callers must not modify it.
func Regions() []string {
	return regionOrder
}

// RegionFile resolves a region code to its CSV member name. The second
// return is false for unsupported codes. All region existence checks go
// through this single lookup.
func RegionFile(region string) (string, bool) {
	f, ok := regionFiles[region]
	return f, ok
}

// SupportedRegion reports whether the code is one of the 14 known regions.
func SupportedRegion(region string) bool {
	_, ok := regionFiles[region]
	return ok
}
