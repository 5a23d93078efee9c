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

package paleo

import (
	"math"

	"github.com/fossildata/pbdb/table"
	"github.com/stockparfait/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spans groups occurrence rows by nameColumn and computes the temporal span
// of each group: the oldest max_ma, the youngest min_ma and their
// difference. Rows without a name or without numeric ages are skipped. The
// result has columns {nameColumn, n_occs, max_ma, min_ma, span_ma}, one row
// per group in name order.
func Spans(t *table.Table, nameColumn string) (*table.Table, error) {
	if _, ok := t.ColumnIndex(nameColumn); !ok {
		return nil, errors.Reason("no column '%s' in the table", nameColumn)
	}
	type span struct {
		n                int
		oldest, youngest float64
	}
	groups := make(map[string]*span)
	for i := 0; i < t.NumRows(); i++ {
		name := t.Cell(i, nameColumn).String()
		if name == "" {
			continue
		}
		maxMa, okMax := t.Cell(i, "max_ma").Float()
		minMa, okMin := t.Cell(i, "min_ma").Float()
		if !okMax || !okMin {
			continue
		}
		s := groups[name]
		if s == nil {
			s = &span{oldest: maxMa, youngest: minMa}
			groups[name] = s
		}
		s.n++
		s.oldest = math.Max(s.oldest, maxMa)
		s.youngest = math.Min(s.youngest, minMa)
	}
	names := maps.Keys(groups)
	slices.Sort(names)
	res := table.New(nameColumn, "n_occs", "max_ma", "min_ma", "span_ma")
	for _, name := range names {
		s := groups[name]
		res.AddRow(table.String(name), table.Number(float64(s.n)),
			table.Number(s.oldest), table.Number(s.youngest),
			table.Number(s.oldest-s.youngest))
	}
	return res, nil
}

// GeoStats summarizes the pairwise great-circle distances between located
// occurrences, in kilometers.
type GeoStats struct {
	Points int // occurrences with numeric lng and lat
	Pairs  int
	MeanKm float64
	StdKm  float64
	MinKm  float64
	MaxKm  float64
}

const earthRadiusKm = 6371.0088

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const rad = math.Pi / 180.0
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Geo computes GeoStats over the table's located occurrences. It requires
// at least two of them.
func Geo(t *table.Table) (GeoStats, error) {
	type point struct{ lat, lng float64 }
	var points []point
	xi, okLng := t.ColumnIndex("lng")
	yi, okLat := t.ColumnIndex("lat")
	if !okLng || !okLat {
		return GeoStats{}, errors.Reason("the table has no lng/lat columns")
	}
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		lng, okLng := row[xi].Float()
		lat, okLat := row[yi].Float()
		if okLng && okLat {
			points = append(points, point{lat: lat, lng: lng})
		}
	}
	if len(points) < 2 {
		return GeoStats{}, errors.Reason(
			"need at least 2 located occurrences, found %d", len(points))
	}
	dists := make([]float64, 0, len(points)*(len(points)-1)/2)
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			dists = append(dists, haversineKm(
				points[i].lat, points[i].lng, points[j].lat, points[j].lng))
		}
	}
	res := GeoStats{
		Points: len(points),
		Pairs:  len(dists),
		MeanKm: stat.Mean(dists, nil),
		MinKm:  floats.Min(dists),
		MaxKm:  floats.Max(dists),
	}
	if len(dists) > 1 {
		res.StdKm = stat.StdDev(dists, nil)
	}
	return res, nil
}
