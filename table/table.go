// Copyright 2025 Fossil Data

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table implements the tabular container returned by PBDB queries: a
// row-ordered table with named columns, where each cell is a closed union of
// string, number, boolean, or an explicit absent marker. The absent marker is
// distinct from any valid value; in particular, it is never coerced to zero
// or to the empty string.
package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
)

type cellKind int

const (
	kindAbsent cellKind = iota // the zero value of Cell is absent
	kindString
	kindNumber
	kindBool
)

// Cell is a single table value: a string, a number, a boolean, or absent.
type Cell struct {
	kind    cellKind
	number  float64
	str     string
	boolean bool
}

// Absent creates the explicit "no value" marker. It is also the zero value of
// Cell.
func Absent() Cell {
	return Cell{}
}

// String creates a string-valued cell.
func String(s string) Cell {
	return Cell{kind: kindString, str: s}
}

// Number creates a numeric cell.
func Number(n float64) Cell {
	return Cell{kind: kindNumber, number: n}
}

// Bool creates a boolean cell.
func Bool(b bool) Cell {
	return Cell{kind: kindBool, boolean: b}
}

// IsAbsent tests whether the cell carries no value.
func (c Cell) IsAbsent() bool {
	return c.kind == kindAbsent
}

// IsNumber tests whether the cell is natively numeric.
func (c Cell) IsNumber() bool {
	return c.kind == kindNumber
}

// Float returns the cell as a number. String cells are parsed, since
// delimited text carries no type information. The second value is false when
// the cell has no numeric interpretation.
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case kindNumber:
		return c.number, true
	case kindString:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.str), 64)
		if err != nil {
			return 0.0, false
		}
		return v, true
	}
	return 0.0, false
}

// String renders the cell for output. Numbers use the shortest exact decimal
// form, booleans render as "true"/"false", and absent renders as the empty
// string.
func (c Cell) String() string {
	switch c.kind {
	case kindString:
		return c.str
	case kindNumber:
		return strconv.FormatFloat(c.number, 'g', -1, 64)
	case kindBool:
		return strconv.FormatBool(c.boolean)
	}
	return ""
}

// Less orders cells for sorting: absent < string < number < bool within mixed
// kinds, strings lexicographically, numbers numerically.
func (c Cell) Less(c2 Cell) bool {
	if c.kind != c2.kind {
		return c.kind < c2.kind
	}
	if c.kind == kindNumber {
		return c.number < c2.number
	}
	return c.String() < c2.String()
}

// Table is a row-ordered container with named columns. Each row has exactly
// one cell per column.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]Cell
}

// New creates an empty table with the given column names.
func New(header ...string) *Table {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	return &Table{header: header, index: index}
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	return t.header
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// AddRow appends a row. A row shorter than the header is padded with absent
// cells; extra cells beyond the header are dropped.
func (t *Table) AddRow(cells ...Cell) {
	row := make([]Cell, len(t.header))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Row returns the i'th row. The slice is owned by the table.
func (t *Table) Row(i int) []Cell {
	return t.rows[i]
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Cell returns the value at row i in the named column, or the absent marker
// when the table has no such column.
func (t *Table) Cell(i int, column string) Cell {
	col, ok := t.index[column]
	if !ok {
		return Absent()
	}
	return t.rows[i][col]
}

// Filter creates a new table with the same columns containing only the rows
// for which keep returns true. The receiver is not modified.
func (t *Table) Filter(keep func(row []Cell) bool) *Table {
	t2 := New(t.header...)
	for _, row := range t.rows {
		if keep(row) {
			t2.AddRow(row...)
		}
	}
	return t2
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

func renderRow(row []Cell) []string {
	res := make([]string, len(row))
	for i, c := range row {
		res[i] = c.String()
	}
	return res
}

// WriteCSV writes the table to w in comma-delimited form, respecting the
// row limit and header choice in p.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	t2 := t
	if p.Rows > 0 && p.Rows < len(t.rows) {
		t2 = New(t.header...)
		for _, row := range t.rows[:p.Rows] {
			t2.AddRow(row...)
		}
	}
	if p.NoHeader {
		t2 = &Table{index: t2.index, rows: t2.rows}
	}
	if err := t2.WriteDelimited(w, ','); err != nil {
		return errors.Annotate(err, "failed to write CSV")
	}
	return nil
}

// WriteText writes the table as a text formatted for ease of reading.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	var widths []int
	update := func(row []string) error {
		if len(row) == 0 {
			return errors.Reason("row size = 0")
		}
		if len(widths) == 0 {
			widths = make([]int, len(row))
		}
		if len(row) != len(widths) {
			return errors.Reason("row size [%d] != expected size [%d]",
				len(row), len(widths))
		}
		for i := range widths {
			if widths[i] < len(row[i]) {
				widths[i] = len(row[i])
				if p.MaxColWidth > 0 && widths[i] > p.MaxColWidth {
					widths[i] = p.MaxColWidth
				}
			}
		}
		return nil
	}

	write := func(row []string) error {
		trimmed := make([]string, len(row))
		for i, s := range row {
			trimmed[i] = s
			if len([]rune(s)) > widths[i] {
				r := []rune(s)[:widths[i]-2]
				trimmed[i] = string(r) + ".."
			}
			trimmed[i] = fmt.Sprintf("%[2]*[1]s", trimmed[i], widths[i])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(trimmed, " | "))
		return err
	}

	dashes := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte('-')
		}
		return string(b)
	}

	dashedRow := func() []string {
		row := make([]string, len(widths))
		for i, w := range widths {
			row[i] = dashes(w)
		}
		return row
	}

	if !p.NoHeader && len(t.header) > 0 {
		if err := update(t.header); err != nil {
			return errors.Annotate(err, "failed to update header widths")
		}
	}
	for i, r := range t.rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := update(renderRow(r)); err != nil {
			return errors.Annotate(err, "failed to update row widths")
		}
	}

	if !p.NoHeader && len(t.header) > 0 {
		if err := write(t.header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		if err := write(dashedRow()); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for i, r := range t.rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := write(renderRow(r)); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
