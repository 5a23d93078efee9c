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

package table

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// normalizeHeader brings a column name to the library-wide convention:
// surrounding whitespace trimmed, inner whitespace runs replaced by a single
// underscore, all lower case. PBDB's own headers are already in this form,
// so for them this is the identity.
func normalizeHeader(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// ReadDelimited parses delimited text with the given field separator into a
// Table. The first row is always the header. Rows with fewer fields than the
// header are padded with absent cells, and empty fields decode as absent;
// extra fields beyond the header are dropped.
func ReadDelimited(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Annotate(err, "failed to parse delimited text")
	}
	if len(rows) == 0 {
		return nil, errors.Reason("delimited text has no header row")
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeHeader(h)
	}
	t := New(header...)
	for _, row := range rows[1:] {
		cells := make([]Cell, 0, len(header))
		for i := range header {
			if i >= len(row) || row[i] == "" {
				cells = append(cells, Absent())
				continue
			}
			cells = append(cells, String(row[i]))
		}
		t.AddRow(cells...)
	}
	return t, nil
}

// WriteDelimited writes the table with the given field separator, header row
// first when the table has named columns. Absent cells are written as empty
// fields, which ReadDelimited decodes back as absent.
func (t *Table) WriteDelimited(w io.Writer, comma rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma
	if len(t.header) > 0 {
		if err := writer.Write(t.header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for _, row := range t.rows {
		if err := writer.Write(renderRow(row)); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}
