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

// Package dbapi implements the client for the Paleobiology Database data
// service.
//
// Official documentation is at https://paleobiodb.org/data1.2/ .
//
// Each endpoint wrapper binds one fixed resource path (occurrences,
// collections, taxa, intervals, references, specimens, opinions) and
// forwards its parameters verbatim; Query is the single choke point that
// builds the URL, performs the GET with a bounded retry policy, and decodes
// the response into a table.Table.
//
// The response format is chosen by the endpoint suffix: JSON carries a
// "records" array (or an error envelope, which fails the query as a service
// error), while csv, tsv and txt are delimited text with a header row. For
// the text formats the service's "pbdb" vocabulary is requested by default
// unless the caller supplies a vocab parameter.
//
// Connection settings travel in the context:
//
//	ctx = dbapi.UseClient(ctx, dbapi.NewClient())
//	tbl, err := dbapi.Occurrences(ctx, dbapi.CSV, dbapi.Params{
//		"base_name": "Canidae", "limit": 100})
package dbapi
