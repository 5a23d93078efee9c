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

// Command pbdb-fetch runs a single PBDB query and prints the result as a
// plain-text or CSV table, optionally caching the snapshot on disk.
//
// The endpoint is either a documented name ("occurrences", "taxa", ...; see
// -list) or a raw service path such as "occs/list".
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fossildata/pbdb/apihelp"
	"github.com/fossildata/pbdb/cache"
	"github.com/fossildata/pbdb/dbapi"
	"github.com/fossildata/pbdb/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// paramsValue accumulates repeated -p key=value flags.
type paramsValue struct {
	params dbapi.Params
}

var _ flag.Value = &paramsValue{}

func (p *paramsValue) String() string {
	if p == nil || len(p.params) == 0 {
		return ""
	}
	return fmt.Sprintf("%v", p.params)
}

func (p *paramsValue) Set(s string) error {
	kv := strings.SplitN(s, "=", 2)
	if len(kv) != 2 || kv[0] == "" {
		return errors.Reason("expected key=value, got '%s'", s)
	}
	p.params[kv[0]] = kv[1]
	return nil
}

type Flags struct {
	Endpoint string
	Format   string
	Params   dbapi.Params
	Cache    string // snapshot file; empty = always fetch
	Refresh  bool
	List     bool // list the documented endpoints and exit
	CSV      bool // dump CSV format; default: text
	Rows     int  // max. rows to print; 0 = all
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	flags := Flags{Params: dbapi.Params{}}
	fs := flag.NewFlagSet("pbdb-fetch", flag.ExitOnError)
	fs.StringVar(&flags.Endpoint, "endpoint", "", "endpoint name or path (required)")
	fs.StringVar(&flags.Format, "format", "csv", "request format: csv, json, tsv, txt")
	fs.Var(&paramsValue{flags.Params}, "p", "query parameter key=value; repeatable")
	fs.StringVar(&flags.Cache, "cache", "", "snapshot file path; default: no caching")
	fs.BoolVar(&flags.Refresh, "refresh", false, "refetch even when the snapshot exists")
	fs.BoolVar(&flags.List, "list", false, "list the documented endpoints and exit")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.IntVar(&flags.Rows, "rows", 0, "max. number of rows to print; 0 = all")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if !flags.List && flags.Endpoint == "" {
		return nil, errors.Reason("missing required -endpoint argument")
	}
	return &flags, err
}

// endpointPath resolves a documented endpoint name to its service path;
// anything containing a "/" is passed through as a raw path.
func endpointPath(name string) (string, error) {
	if e, ok := apihelp.Describe(name); ok {
		return e.Path, nil
	}
	if strings.Contains(name, "/") {
		return name, nil
	}
	return "", errors.Reason(
		"unknown endpoint '%s'; see -list for the documented names", name)
}

func listEndpoints(w io.Writer) error {
	tbl := table.New("name", "path", "summary")
	for _, e := range apihelp.All() {
		tbl.AddRow(table.String(e.Name), table.String(e.Path), table.String(e.Summary))
	}
	if err := tbl.WriteText(w, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to print the endpoint list")
	}
	return nil
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	if flags.List {
		return listEndpoints(w)
	}
	path, err := endpointPath(flags.Endpoint)
	if err != nil {
		return err
	}
	fetch := func(ctx context.Context) (*table.Table, error) {
		return dbapi.Query(ctx, path, dbapi.Format(flags.Format), flags.Params)
	}
	var tbl *table.Table
	if flags.Cache == "" {
		tbl, err = fetch(ctx)
	} else {
		tbl, err = cache.Load(ctx, flags.Cache, flags.Refresh, fetch)
	}
	if err != nil {
		return errors.Annotate(err, "failed to fetch '%s'", flags.Endpoint)
	}
	p := table.Params{Rows: flags.Rows}
	if flags.CSV {
		if err := tbl.WriteCSV(w, p); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, p); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
