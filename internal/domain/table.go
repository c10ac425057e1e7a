package domain

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrUnknownRegion is returned when a requested region code is not one of
// the 14 supported codes.
var ErrUnknownRegion = errors.New("unknown region")

// ErrNoRegionData is returned when no archive contains the region's CSV
// member, so no table can be built.
var ErrNoRegionData = errors.New("no data for region")

// dateLayout is the calendar-date wire format in the source CSVs.
const dateLayout = "2006-01-02"

// Column is one typed column array. Exactly one backing slice is populated,
// selected by Type; the tagged layout keeps the cache gob-encodable without
// interface registration.
type Column struct {
	Name string
	Type SemanticType

	Int8s   []int8
	Int16s  []int16
	Int32s  []int32
	Floats  []float64
	Strings []string
	Dates   []time.Time
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.Type {
	case SmallInt:
		return len(c.Int8s)
	case MediumInt:
		return len(c.Int16s)
	case LargeInt:
		return len(c.Int32s)
	case Float:
		return len(c.Floats)
	case CalendarDate:
		return len(c.Dates)
	default:
		return len(c.Strings)
	}
}

// AppendCell converts an already repaired literal to the column's final
// type and appends it. For every type except CalendarDate the conversion
// cannot fail on repair output; integer literals wider than the declared
// size are truncated, matching the source data's wraparound semantics. A
// malformed calendar date is the one conversion error that propagates.
func (c *Column) AppendCell(repaired string) error {
	switch c.Type {
	case SmallInt:
		v, _ := strconv.ParseInt(repaired, 10, 64)
		c.Int8s = append(c.Int8s, int8(v))
	case MediumInt:
		v, _ := strconv.ParseInt(repaired, 10, 64)
		c.Int16s = append(c.Int16s, int16(v))
	case LargeInt:
		v, _ := strconv.ParseInt(repaired, 10, 64)
		c.Int32s = append(c.Int32s, int32(v))
	case Float:
		v, _ := strconv.ParseFloat(repaired, 64)
		c.Floats = append(c.Floats, v)
	case CalendarDate:
		d, err := time.Parse(dateLayout, repaired)
		if err != nil {
			return fmt.Errorf("column %q: parse date %q: %w", c.Name, repaired, err)
		}
		c.Dates = append(c.Dates, d)
	default:
		c.Strings = append(c.Strings, repaired)
	}
	return nil
}

// Value returns the i-th element boxed for serialization and display.
// CalendarDate values come back in wire format.
func (c *Column) Value(i int) any {
	switch c.Type {
	case SmallInt:
		return c.Int8s[i]
	case MediumInt:
		return c.Int16s[i]
	case LargeInt:
		return c.Int32s[i]
	case Float:
		return c.Floats[i]
	case CalendarDate:
		return c.Dates[i].Format(dateLayout)
	default:
		return c.Strings[i]
	}
}

// concat appends other's backing array onto c's. Both columns must share
// the same semantic type.
func (c *Column) concat(other *Column) error {
	if c.Type != other.Type {
		return fmt.Errorf("column %q: type mismatch %s vs %s", c.Name, c.Type, other.Type)
	}
	c.Int8s = append(c.Int8s, other.Int8s...)
	c.Int16s = append(c.Int16s, other.Int16s...)
	c.Int32s = append(c.Int32s, other.Int32s...)
	c.Floats = append(c.Floats, other.Floats...)
	c.Strings = append(c.Strings, other.Strings...)
	c.Dates = append(c.Dates, other.Dates...)
	return nil
}

// Table is the (ordered column names, ordered column arrays) pair every
// stage of the pipeline exchanges: 65 equal-length columns, region column
// first. It serves as both the per-region table and the multi-region
// combined table.
type Table struct {
	Names   []string
	Columns []Column
}

// NewTable returns an empty table shaped by the canonical schema.
func NewTable() *Table {
	cols := make([]Column, NumColumns)
	for i, def := range Schema() {
		cols[i] = Column{Name: def.Name, Type: def.Type}
	}
	return &Table{Names: ColumnNames(), Columns: cols}
}

// Rows returns the table's row count.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// AppendRow repairs and appends one CSV data row (64 raw cells, schema
// indices 1..64) plus the constant region cell at index 0. On error the
// row may be partially appended; builders treat any error as fatal for the
// whole build, so no rollback is attempted.
func (t *Table) AppendRow(region string, cells []string) error {
	if len(cells) != NumColumns-1 {
		return fmt.Errorf("expected %d cells, got %d", NumColumns-1, len(cells))
	}
	if err := t.Columns[0].AppendCell(region); err != nil {
		return err
	}
	for i, raw := range cells {
		col := &t.Columns[i+1]
		if err := col.AppendCell(Repair(raw, col.Type)); err != nil {
			return err
		}
	}
	return nil
}

// Concat appends all of other's rows onto t, column by column in index
// order. Both tables must have the canonical shape.
func (t *Table) Concat(other *Table) error {
	if len(t.Columns) != len(other.Columns) {
		return fmt.Errorf("column count mismatch: %d vs %d", len(t.Columns), len(other.Columns))
	}
	for i := range t.Columns {
		if err := t.Columns[i].concat(&other.Columns[i]); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the equal-length invariant across all columns.
func (t *Table) Validate() error {
	if len(t.Columns) != NumColumns {
		return fmt.Errorf("expected %d columns, got %d", NumColumns, len(t.Columns))
	}
	n := t.Columns[0].Len()
	for i := range t.Columns {
		if l := t.Columns[i].Len(); l != n {
			return fmt.Errorf("column %d (%q) has %d rows, want %d", i, t.Columns[i].Name, l, n)
		}
	}
	return nil
}
