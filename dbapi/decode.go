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

package dbapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fossildata/pbdb/table"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// decode turns the raw response body into a table according to the declared
// format.
func decode(body []byte, format Format) (*table.Table, error) {
	if format == JSON {
		return decodeJSON(body)
	}
	return decodeDelimited(body, formatDelimiter[format])
}

// decodeJSON dispatches on the shape of the parsed document: an error
// envelope fails as a service error before any table is built; a "records"
// array becomes one row per record; any other object becomes a single-row
// table.
func decodeJSON(body []byte) (*table.Table, error) {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errorf(KindDecode, err, "response is not valid JSON")
	}
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil, errorf(KindDecode, nil, "expected a JSON object, got %T", doc)
	}
	if msg, ok := envelopeError(obj); ok {
		return nil, errorf(KindService, nil, "%s", msg)
	}
	if recs, ok := obj["records"]; ok {
		rows, ok := recs.([]interface{})
		if !ok {
			return nil, errorf(KindDecode, nil, "'records' is not an array")
		}
		return recordsTable(rows)
	}
	return recordsTable([]interface{}{doc})
}

// envelopeError extracts the text of a service-reported error field, if the
// object has one. A field that does not stringify cleanly falls back to a
// generic message.
func envelopeError(obj map[string]interface{}) (string, bool) {
	v, ok := obj["error"]
	if !ok {
		return "", false
	}
	if msg, ok := v.(string); ok {
		return msg, true
	}
	b, err := json.Marshal(v)
	if err != nil || len(b) == 0 {
		return "service reported an unspecified error", true
	}
	return string(b), true
}

// envelopeMessage is the transport-side probe: it reports the envelope text
// when the body happens to be a JSON object carrying one, and "" otherwise.
func envelopeMessage(body []byte) string {
	var obj map[string]interface{}
	if json.Unmarshal(body, &obj) != nil {
		return ""
	}
	msg, ok := envelopeError(obj)
	if !ok {
		return ""
	}
	return msg
}

// recordsTable builds a table from row objects of possibly heterogeneous
// shape. Columns are collected in order of first appearance, each record's
// new keys sorted, which keeps the order deterministic within a process run.
// A field missing from a record, or set to JSON null, decodes as the absent
// marker.
func recordsTable(rows []interface{}) (*table.Table, error) {
	var header []string
	seen := make(map[string]bool)
	records := make([]map[string]interface{}, len(rows))
	for i, r := range rows {
		obj, ok := r.(map[string]interface{})
		if !ok {
			return nil, errorf(KindDecode, nil, "record %d is not a JSON object", i)
		}
		records[i] = obj
		keys := maps.Keys(obj)
		slices.Sort(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	t := table.New(header...)
	for _, obj := range records {
		cells := make([]table.Cell, len(header))
		for j, k := range header {
			v, ok := obj[k]
			if !ok {
				cells[j] = table.Absent()
				continue
			}
			cells[j] = jsonCell(v)
		}
		t.AddRow(cells...)
	}
	return t, nil
}

// jsonCell converts one JSON value to a table cell. Nested arrays and
// objects are kept as their compact JSON text.
func jsonCell(v interface{}) table.Cell {
	switch v2 := v.(type) {
	case nil:
		return table.Absent()
	case string:
		return table.String(v2)
	case float64:
		return table.Number(v2)
	case bool:
		return table.Bool(v2)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return table.String(fmt.Sprint(v))
	}
	return table.String(string(b))
}

// decodeDelimited parses the body as delimited text with the format's fixed
// delimiter. The first row is always the header.
func decodeDelimited(body []byte, comma rune) (*table.Table, error) {
	t, err := table.ReadDelimited(bytes.NewReader(body), comma)
	if err != nil {
		return nil, errorf(KindDecode, err, "response is not valid delimited text")
	}
	return t, nil
}
