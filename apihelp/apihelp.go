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

// Package apihelp documents the supported PBDB endpoints for interactive
// discovery. The catalog is static; the authoritative reference is the
// service's own documentation at https://paleobiodb.org/data1.2/.
package apihelp

import "strings"

// Entry describes one endpoint wrapper: the name accepted by dbapi.Query
// bindings, the service path it resolves to, and a short summary.
type Entry struct {
	Name    string
	Path    string
	Summary string
}

// entries is sorted by Name.
var entries = []Entry{
	{"collection", "colls/single", "A single fossil collection by identifier."},
	{"collection refs", "colls/refs", "Bibliographic references for a set of collections."},
	{"collections", "colls/list", "Fossil collections matching taxonomic, temporal or spatial criteria."},
	{"collections geo", "colls/summary", "Geographic clusters of collections at a required cluster level."},
	{"config", "config", "Service configuration: clusters, ranks, continents, countries."},
	{"interval", "intervals/single", "A single geologic time interval by identifier."},
	{"intervals", "intervals/list", "Geologic time intervals, optionally within a scale or age range."},
	{"measurements", "specs/measurements", "Measurements taken on fossil specimens."},
	{"occurrence", "occs/single", "A single fossil occurrence by identifier."},
	{"occurrence refs", "occs/refs", "Bibliographic references for a set of occurrences."},
	{"occurrences", "occs/list", "Fossil occurrences matching taxonomic, temporal or spatial criteria."},
	{"opinion", "opinions/single", "A single taxonomic opinion by identifier."},
	{"opinions", "opinions/list", "Taxonomic opinions matching the given criteria."},
	{"reference", "refs/single", "A single bibliographic reference by identifier."},
	{"references", "refs/list", "Bibliographic references matching the given criteria."},
	{"scale", "scales/single", "A single time scale by identifier."},
	{"scales", "scales/list", "Known time scales."},
	{"specimen", "specs/single", "A single fossil specimen by identifier."},
	{"specimen refs", "specs/refs", "Bibliographic references for a set of specimens."},
	{"specimens", "specs/list", "Fossil specimens matching the given criteria."},
	{"strata", "strata/list", "Geological strata matching name, rank or location."},
	{"strata auto", "strata/auto", "Autocompletion for stratum names (JSON only)."},
	{"taxa", "taxa/list", "Taxa matching name, rank or hierarchy criteria."},
	{"taxa auto", "taxa/auto", "Autocompletion for taxonomic names (JSON only)."},
	{"taxa opinions", "taxa/opinions", "Taxonomic opinions about a set of taxa."},
	{"taxa refs", "taxa/refs", "Bibliographic references for a set of taxa."},
	{"taxon", "taxa/single", "A single taxon by name or identifier."},
}

// All lists every documented endpoint in name order.
func All() []Entry {
	res := make([]Entry, len(entries))
	copy(res, entries)
	return res
}

// Search returns the entries whose name, path or summary contains the query
// as a case-insensitive substring, in name order. An empty query matches
// everything.
func Search(query string) []Entry {
	q := strings.ToLower(query)
	var res []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Path), q) ||
			strings.Contains(strings.ToLower(e.Summary), q) {
			res = append(res, e)
		}
	}
	return res
}

// Describe looks up a single entry by its exact name, case-insensitively.
func Describe(name string) (Entry, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}
