package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepair_Integers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain integer", "42", "42"},
		{"quoted integer", `"42"`, "42"},
		{"negative integer", "-7", "-7"},
		{"zero", "0", "0"},
		{"empty cell", "", "-1"},
		{"letters", "XX", "-1"},
		{"float-looking", "1.5", "-1"},
		{"quoted garbage", `"A1"`, "-1"},
		{"already sentinel", "-1", "-1"},
	}
	for _, typ := range []SemanticType{SmallInt, MediumInt, LargeInt} {
		for _, tt := range tests {
			t.Run(typ.String()+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, Repair(tt.raw, typ))
			})
		}
	}
}

func TestRepair_Float(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"comma decimal", "1,5", "1.5"},
		{"quoted comma decimal", `"712,5"`, "712.5"},
		{"point decimal", "1.5", "1.5"},
		{"integer literal", "3", "3"},
		{"negative", "-0,25", "-0.25"},
		{"garbage", "abc", "-1"},
		{"empty", "", "-1"},
		{"already sentinel", "-1", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Repair(tt.raw, Float))
		})
	}
}

func TestRepair_ClockTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"valid time", `"0845"`, "08:45"},
		{"midnight", `"0000"`, "00:00"},
		{"hour 24 allowed", `"2410"`, "24:10"},
		{"hours out of range", `"2530"`, "-1"},
		{"minutes out of range keep hours", `"0970"`, "09"},
		{"unknown time marker", `"2560"`, "-1"},
		{"empty", "", "-1"},
		{"too short", `"08"`, "-1"},
		{"letters", `"ab:cd"`, "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Repair(tt.raw, ClockTime))
		})
	}
}

func TestRepair_TextTypes(t *testing.T) {
	for _, typ := range []SemanticType{ShortText, Identifier, RegionCode} {
		t.Run(typ.String(), func(t *testing.T) {
			assert.Equal(t, "abc", Repair(`"abc"`, typ))
			assert.Equal(t, "", Repair(`""`, typ), "no validation, empty passes through")
			assert.Equal(t, "žlutý", Repair("žlutý", typ))
		})
	}
}

func TestRepair_CalendarDateStripsQuotesOnly(t *testing.T) {
	assert.Equal(t, "2020-06-01", Repair(`"2020-06-01"`, CalendarDate))
	// Malformed dates pass through; the conversion step rejects them.
	assert.Equal(t, "bogus", Repair("bogus", CalendarDate))
}

// Repairing an already repaired value must be a no-op for every type.
func TestRepair_Idempotence(t *testing.T) {
	raws := []string{
		"42", `"42"`, "", "XX", "1,5", "abc",
		`"0845"`, `"0970"`, `"2530"`, `"text"`,
	}
	types := []SemanticType{
		SmallInt, MediumInt, LargeInt, Float, ClockTime, ShortText, Identifier,
	}
	for _, typ := range types {
		for _, raw := range raws {
			once := Repair(raw, typ)
			assert.Equal(t, once, Repair(once, typ),
				"type %s raw %q: second repair changed %q", typ, raw, once)
		}
	}
}
