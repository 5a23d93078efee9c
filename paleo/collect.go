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
	"runtime"

	"github.com/fossildata/pbdb/dbapi"
	"github.com/fossildata/pbdb/table"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
)

// CollectTaxa fetches the occurrence table of each taxon concurrently,
// querying occs/list with base_name set to the taxon on top of the shared
// params. A failed taxon is logged and skipped; it has no entry in the
// result.
func CollectTaxa(ctx context.Context, taxa []string, format dbapi.Format, params dbapi.Params) map[string]*table.Table {
	type fetched struct {
		name string
		tbl  *table.Table
	}
	f := func(name string) fetched {
		p := dbapi.Params{}
		for k, v := range params {
			p[k] = v
		}
		p["base_name"] = name
		tbl, err := dbapi.Occurrences(ctx, format, p)
		if err != nil {
			logging.Warningf(ctx, "failed to fetch occurrences for %s: %s",
				name, err.Error())
			return fetched{name: name}
		}
		return fetched{name: name, tbl: tbl}
	}
	pm := iterator.ParallelMap(ctx, 2*runtime.NumCPU(), iterator.FromSlice(taxa), f)
	defer pm.Close()

	return iterator.Reduce[fetched, map[string]*table.Table](
		pm, make(map[string]*table.Table),
		func(r fetched, m map[string]*table.Table) map[string]*table.Table {
			if r.tbl != nil {
				m[r.name] = r.tbl
			}
			return m
		})
}
