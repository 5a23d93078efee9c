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

// Package paleo cleans and analyzes occurrence tables fetched from the
// PBDB: record-completeness filters, per-taxon temporal spans, and spatial
// distance statistics.
package paleo

import (
	"context"
	"strings"

	"github.com/fossildata/pbdb/table"
	"github.com/stockparfait/logging"
)

// Filters is the record-completeness configuration, decodable from the
// analysis app's TOML config.
type Filters struct {
	Ranks      []string `toml:"ranks"`       // keep rows identified to one of these ranks
	RankColumn string   `toml:"rank_column"` // default: "accepted_rank"
	Time       bool     `toml:"time"`        // require numeric max_ma and min_ma
	MaxSpanMa  float64  `toml:"max_span_ma"` // drop rows dated wider than this; implies Time
	Space      bool     `toml:"space"`       // require numeric lng and lat
}

func (f Filters) rankColumn() string {
	if f.RankColumn == "" {
		return "accepted_rank"
	}
	return f.RankColumn
}

// Apply runs the configured filters in order: rank, time, space. Dropped
// row counts are logged.
func (f Filters) Apply(ctx context.Context, t *table.Table) *table.Table {
	orig := t.NumRows()
	if len(f.Ranks) > 0 {
		t = ByRank(t, f.rankColumn(), f.Ranks)
	}
	if f.Time || f.MaxSpanMa > 0 {
		t = WithAges(t, f.MaxSpanMa)
	}
	if f.Space {
		t = WithCoordinates(t)
	}
	if dropped := orig - t.NumRows(); dropped > 0 {
		logging.Infof(ctx, "filters dropped %d of %d occurrences", dropped, orig)
	}
	return t
}

func none(t *table.Table) *table.Table {
	return t.Filter(func([]table.Cell) bool { return false })
}

// ByRank keeps the rows whose value in column matches one of ranks,
// case-insensitively. A table without the column has no matching rows.
func ByRank(t *table.Table, column string, ranks []string) *table.Table {
	ci, ok := t.ColumnIndex(column)
	if !ok {
		return none(t)
	}
	set := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		set[strings.ToLower(r)] = true
	}
	return t.Filter(func(row []table.Cell) bool {
		return set[strings.ToLower(row[ci].String())]
	})
}

// WithAges keeps the rows with numeric max_ma and min_ma. A positive
// maxSpanMa additionally drops rows dated wider than that many Myr.
func WithAges(t *table.Table, maxSpanMa float64) *table.Table {
	mi, okMax := t.ColumnIndex("max_ma")
	ni, okMin := t.ColumnIndex("min_ma")
	if !okMax || !okMin {
		return none(t)
	}
	return t.Filter(func(row []table.Cell) bool {
		maxMa, okMax := row[mi].Float()
		minMa, okMin := row[ni].Float()
		if !okMax || !okMin {
			return false
		}
		return maxSpanMa <= 0 || maxMa-minMa <= maxSpanMa
	})
}

// WithCoordinates keeps the rows with numeric lng and lat.
func WithCoordinates(t *table.Table) *table.Table {
	xi, okLng := t.ColumnIndex("lng")
	yi, okLat := t.ColumnIndex("lat")
	if !okLng || !okLat {
		return none(t)
	}
	return t.Filter(func(row []table.Cell) bool {
		_, okLng := row[xi].Float()
		_, okLat := row[yi].Float()
		return okLng && okLat
	})
}
