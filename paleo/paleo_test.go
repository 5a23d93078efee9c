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
	"context"
	"testing"

	"github.com/fossildata/pbdb/table"
	"github.com/pelletier/go-toml/v2"

	. "github.com/smartystreets/goconvey/convey"
)

// occurrences builds a small occurrence table with deliberate gaps.
func occurrences() *table.Table {
	t := table.New("occurrence_no", "accepted_name", "accepted_rank",
		"max_ma", "min_ma", "lng", "lat")
	t.AddRow(table.Number(1), table.String("Canis dirus"), table.String("species"),
		table.Number(0.126), table.Number(0.0117),
		table.Number(-118.3), table.Number(34.1))
	t.AddRow(table.Number(2), table.String("Canis"), table.String("genus"),
		table.Number(2.58), table.Number(0.0117),
		table.Absent(), table.Absent())
	t.AddRow(table.Number(3), table.String("Canis lupus"), table.String("species"),
		table.Absent(), table.Number(0.0117),
		table.Number(10.5), table.Number(45.0))
	t.AddRow(table.Number(4), table.String("Vulpes vulpes"), table.String("species"),
		table.Number(3.6), table.Number(0.0117),
		table.Number(10.5), table.Number(45.0))
	t.AddRow(table.Number(5), table.String("Canidae"), table.String("family"),
		table.Number(23.03), table.Number(0.0117),
		table.Number(0), table.Number(0))
	return t
}

func TestFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	Convey("ByRank", t, func() {
		Convey("keeps matching ranks, case-insensitively", func() {
			res := ByRank(occurrences(), "accepted_rank", []string{"SPECIES"})
			So(res.NumRows(), ShouldEqual, 3)
			So(res.Cell(0, "accepted_name").String(), ShouldEqual, "Canis dirus")
		})

		Convey("several ranks union", func() {
			res := ByRank(occurrences(), "accepted_rank",
				[]string{"species", "genus"})
			So(res.NumRows(), ShouldEqual, 4)
		})

		Convey("a missing column matches nothing", func() {
			res := ByRank(occurrences(), "identified_rank", []string{"species"})
			So(res.NumRows(), ShouldEqual, 0)
		})
	})

	Convey("WithAges", t, func() {
		Convey("requires both ages", func() {
			res := WithAges(occurrences(), 0)
			So(res.NumRows(), ShouldEqual, 4) // row 3 has no max_ma
		})

		Convey("bounds the dating span", func() {
			res := WithAges(occurrences(), 5)
			So(res.NumRows(), ShouldEqual, 3) // drops the 23 Myr Canidae row
		})

		Convey("missing age columns match nothing", func() {
			res := WithAges(table.New("a"), 0)
			So(res.NumRows(), ShouldEqual, 0)
		})
	})

	Convey("WithCoordinates", t, func() {
		res := WithCoordinates(occurrences())
		So(res.NumRows(), ShouldEqual, 4) // row 2 has no coordinates
		// Zero coordinates are valid, not absent.
		So(res.Cell(3, "accepted_name").String(), ShouldEqual, "Canidae")
	})

	Convey("Apply composes rank, time and space", t, func() {
		f := Filters{Ranks: []string{"species"}, Time: true, Space: true}
		res := f.Apply(ctx, occurrences())
		So(res.NumRows(), ShouldEqual, 2)
		So(res.Cell(0, "accepted_name").String(), ShouldEqual, "Canis dirus")
		So(res.Cell(1, "accepted_name").String(), ShouldEqual, "Vulpes vulpes")

		Convey("MaxSpanMa alone implies the time filter", func() {
			res := Filters{MaxSpanMa: 5}.Apply(ctx, occurrences())
			So(res.NumRows(), ShouldEqual, 3)
		})

		Convey("zero filters keep everything", func() {
			So(Filters{}.Apply(ctx, occurrences()).NumRows(), ShouldEqual, 5)
		})
	})

	Convey("Filters decode from TOML", t, func() {
		var f Filters
		So(toml.Unmarshal([]byte(`
ranks = ["species", "genus"]
time = true
max_span_ma = 10.5
space = true
`), &f), ShouldBeNil)
		So(f, ShouldResemble, Filters{
			Ranks:     []string{"species", "genus"},
			Time:      true,
			MaxSpanMa: 10.5,
			Space:     true,
		})
	})
}
