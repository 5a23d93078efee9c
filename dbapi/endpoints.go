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
	"context"

	"github.com/fossildata/pbdb/table"
)

// binding ties a wrapper name to its fixed endpoint path, the parameter it
// validates locally (if any), and a forced format (if any). All other
// parameters pass through to the service untouched; their validation is the
// service's job.
type binding struct {
	path     string
	required string // parameter checked before any network activity
	format   Format // non-empty overrides the caller's format
}

var bindings = map[string]binding{
	"occurrence":      {path: "occs/single", required: "id"},
	"occurrences":     {path: "occs/list"},
	"occurrence refs": {path: "occs/refs"},
	"collection":      {path: "colls/single", required: "id"},
	"collections":     {path: "colls/list"},
	"collections geo": {path: "colls/summary", required: "level"},
	"collection refs": {path: "colls/refs"},
	"taxon":           {path: "taxa/single"},
	"taxa":            {path: "taxa/list"},
	"taxa auto":       {path: "taxa/auto", format: JSON},
	"taxa refs":       {path: "taxa/refs"},
	"taxa opinions":   {path: "taxa/opinions"},
	"interval":        {path: "intervals/single"},
	"intervals":       {path: "intervals/list"},
	"scale":           {path: "scales/single"},
	"scales":          {path: "scales/list"},
	"strata":          {path: "strata/list"},
	"strata auto":     {path: "strata/auto", format: JSON},
	"reference":       {path: "refs/single"},
	"references":      {path: "refs/list"},
	"specimen":        {path: "specs/single"},
	"specimens":       {path: "specs/list"},
	"specimen refs":   {path: "specs/refs"},
	"measurements":    {path: "specs/measurements"},
	"opinion":         {path: "opinions/single"},
	"opinions":        {path: "opinions/list"},
	"config":          {path: "config"},
}

// missingValue reports whether a required parameter value counts as absent:
// nil, an empty string, or a zero numeric id.
func missingValue(v interface{}) bool {
	switch v2 := v.(type) {
	case nil:
		return true
	case string:
		return v2 == ""
	case int:
		return v2 == 0
	case int64:
		return v2 == 0
	case float64:
		return v2 == 0
	}
	return false
}

// call is the single generic wrapper behind all endpoint functions.
func call(ctx context.Context, name string, format Format, params Params) (*table.Table, error) {
	b, ok := bindings[name]
	if !ok {
		return nil, errorf(KindConfiguration, nil, "unknown endpoint '%s'", name)
	}
	if b.format != "" {
		format = b.format
	}
	if b.required != "" && missingValue(params[b.required]) {
		return nil, errorf(KindConfiguration, nil,
			"%s requires the '%s' parameter", name, b.required)
	}
	return Query(ctx, b.path, format, params)
}

// withParam sets one parameter on a copy of params, leaving the caller's map
// intact.
func withParam(params Params, key string, value interface{}) Params {
	p := copyParams(params)
	p[key] = value
	return p
}

// Occurrence fetches a single fossil occurrence record. The identifier is
// required and checked locally before any request is made.
func Occurrence(ctx context.Context, id interface{}, format Format, params Params) (*table.Table, error) {
	return call(ctx, "occurrence", format, withParam(params, "id", id))
}

// Occurrences fetches a list of fossil occurrences matching params, e.g.
// base_name or interval.
func Occurrences(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "occurrences", format, params)
}

// OccurrenceRefs fetches bibliographic references associated with fossil
// occurrences.
func OccurrenceRefs(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "occurrence refs", format, params)
}

// Collection fetches a single fossil collection record. The identifier is
// required and checked locally before any request is made.
func Collection(ctx context.Context, id interface{}, format Format, params Params) (*table.Table, error) {
	return call(ctx, "collection", format, withParam(params, "id", id))
}

// Collections fetches a list of fossil collections matching params.
func Collections(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "collections", format, params)
}

// CollectionsGeo fetches geographic clusters of collections at the given
// summary level. The level is required and checked locally before any
// request is made.
func CollectionsGeo(ctx context.Context, level interface{}, format Format, params Params) (*table.Table, error) {
	return call(ctx, "collections geo", format, withParam(params, "level", level))
}

// CollectionRefs fetches bibliographic references associated with fossil
// collections.
func CollectionRefs(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "collection refs", format, params)
}

// Taxon fetches a single taxon record, selected by id or name parameter.
func Taxon(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "taxon", format, params)
}

// Taxa fetches a list of taxa matching params, e.g. all children of a base
// name.
func Taxa(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "taxa", format, params)
}

// TaxaAuto fetches taxonomic name completions for a prefix. The service
// returns well-formed candidate lists only as JSON, so the format is fixed.
func TaxaAuto(ctx context.Context, params Params) (*table.Table, error) {
	return call(ctx, "taxa auto", JSON, params)
}

// TaxaRefs fetches bibliographic references associated with taxa.
func TaxaRefs(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "taxa refs", format, params)
}

// TaxaOpinions fetches taxonomic opinions about a set of taxa.
func TaxaOpinions(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "taxa opinions", format, params)
}

// Interval fetches a single geologic time interval.
func Interval(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "interval", format, params)
}

// Intervals fetches a list of geologic time intervals.
func Intervals(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "intervals", format, params)
}

// Scale fetches a single geologic time scale.
func Scale(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "scale", format, params)
}

// Scales fetches a list of geologic time scales.
func Scales(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "scales", format, params)
}

// Strata fetches a list of geological strata.
func Strata(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "strata", format, params)
}

// StrataAuto fetches stratum name completions for a prefix. The service
// returns well-formed candidate lists only as JSON, so the format is fixed.
func StrataAuto(ctx context.Context, params Params) (*table.Table, error) {
	return call(ctx, "strata auto", JSON, params)
}

// Reference fetches a single bibliographic reference.
func Reference(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "reference", format, params)
}

// References fetches a list of bibliographic references.
func References(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "references", format, params)
}

// Specimen fetches a single fossil specimen record.
func Specimen(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "specimen", format, params)
}

// Specimens fetches a list of fossil specimens.
func Specimens(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "specimens", format, params)
}

// SpecimenRefs fetches bibliographic references associated with specimens.
func SpecimenRefs(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "specimen refs", format, params)
}

// Measurements fetches measurements of fossil specimens.
func Measurements(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "measurements", format, params)
}

// Opinion fetches a single taxonomic opinion.
func Opinion(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "opinion", format, params)
}

// Opinions fetches a list of taxonomic opinions.
func Opinions(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "opinions", format, params)
}

// ServiceConfig fetches the service's configuration records, e.g. cluster
// levels and taxonomic ranks.
func ServiceConfig(ctx context.Context, format Format, params Params) (*table.Table, error) {
	return call(ctx, "config", format, params)
}
