package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_CanonicalShape(t *testing.T) {
	s := Schema()
	require.Len(t, s, NumColumns)

	assert.Equal(t, ColumnDef{"Region", RegionCode}, s[0])
	assert.Equal(t, ColumnDef{"ID", Identifier}, s[1])
	assert.Equal(t, ColumnDef{"YYYY-MM-DD", CalendarDate}, s[4])
	assert.Equal(t, ColumnDef{"Time", ClockTime}, s[6])
	assert.Equal(t, ColumnDef{"GPS:X", Float}, s[48])
	assert.Equal(t, ColumnDef{"Accident area", SmallInt}, s[64])
}

func TestRegions_ClosedSet(t *testing.T) {
	regions := Regions()
	require.Len(t, regions, 14)
	assert.Equal(t, "PHA", regions[0])
	assert.Equal(t, "KVK", regions[13])

	for _, r := range regions {
		file, ok := RegionFile(r)
		assert.True(t, ok, "region %s must resolve", r)
		assert.Regexp(t, `^\d{2}\.csv$`, file)
		assert.True(t, SupportedRegion(r))
	}
}

func TestRegionFile_Unknown(t *testing.T) {
	_, ok := RegionFile("ZZZ")
	assert.False(t, ok)
	assert.False(t, SupportedRegion("ZZZ"))
}

func TestColumnNames_MatchSchemaOrder(t *testing.T) {
	names := ColumnNames()
	require.Len(t, names, NumColumns)
	for i, def := range Schema() {
		assert.Equal(t, def.Name, names[i])
	}
}
