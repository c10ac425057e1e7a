package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/accident-data-etl/internal/domain"
)

func TestRowMessage(t *testing.T) {
	table := domain.NewTable()
	cells := make([]string, domain.NumColumns-1)
	for i := range cells {
		cells[i] = "3"
	}
	cells[0] = `"X001"`
	cells[3] = "2020-06-01"
	cells[5] = `"0845"`
	require.NoError(t, table.AppendRow("MSK", cells))

	msg, err := rowMessage("MSK", table, 0)
	require.NoError(t, err)

	assert.Equal(t, "MSK", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "application/json", string(msg.Headers[0].Value))

	var record map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &record))
	assert.Equal(t, "MSK", record["Region"])
	assert.Equal(t, "X001", record["ID"])
	assert.Equal(t, "2020-06-01", record["YYYY-MM-DD"])
	assert.Equal(t, "08:45", record["Time"])
	assert.EqualValues(t, 3, record["Accident type"])
	assert.Len(t, record, domain.NumColumns)
}
