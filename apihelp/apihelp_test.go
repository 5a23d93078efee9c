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

package apihelp

import (
	"sort"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApiHelp(t *testing.T) {
	t.Parallel()

	Convey("the catalog is complete and ordered", t, func() {
		all := All()
		So(len(all), ShouldEqual, 27)
		So(sort.SliceIsSorted(all, func(i, j int) bool {
			return all[i].Name < all[j].Name
		}), ShouldBeTrue)

		Convey("and is a copy", func() {
			all[0].Name = "clobbered"
			So(All()[0].Name, ShouldEqual, "collection")
		})
	})

	Convey("Search", t, func() {
		Convey("matches names case-insensitively", func() {
			res := Search("TAXA")
			names := make([]string, len(res))
			for i, e := range res {
				names[i] = e.Name
			}
			So(names, ShouldResemble,
				[]string{"taxa", "taxa auto", "taxa opinions", "taxa refs",
					"taxon"})
		})

		Convey("matches paths and summaries", func() {
			res := Search("colls/")
			So(len(res), ShouldEqual, 4)
			res = Search("autocompletion")
			So(len(res), ShouldEqual, 2)
		})

		Convey("empty query matches everything", func() {
			So(len(Search("")), ShouldEqual, 27)
		})

		Convey("no match yields nil", func() {
			So(Search("trilobite futures"), ShouldBeNil)
		})
	})

	Convey("Describe", t, func() {
		e, ok := Describe("Occurrences")
		So(ok, ShouldBeTrue)
		So(e.Path, ShouldEqual, "occs/list")

		_, ok = Describe("occs")
		So(ok, ShouldBeFalse)
	})
}
