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

// Command pbdb-span fetches occurrences for the configured taxa, applies
// the record-completeness filters and prints per-taxon temporal spans,
// optionally with spatial distance statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fossildata/pbdb/dbapi"
	"github.com/fossildata/pbdb/paleo"
	"github.com/fossildata/pbdb/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Config   string // config file
	CSV      bool   // dump span tables in CSV format; default: text
	LogLevel logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("pbdb-span", flag.ExitOnError)
	fs.StringVar(&flags.Config, "conf", "", "config file (required)")
	fs.BoolVar(&flags.CSV, "csv", false, "print span tables in CSV format; default: text")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Config == "" {
		return nil, errors.Reason("missing required -conf argument")
	}
	return &flags, err
}

type Config struct {
	Taxa       []string          `toml:"taxa"`
	NameColumn string            `toml:"name_column"` // default: "accepted_name"
	Params     map[string]string `toml:"params"`      // extra query parameters
	Geo        bool              `toml:"geo"`         // print spatial statistics
	Filters    paleo.Filters     `toml:"filters"`
}

func parseConfig(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `taxa = ["Canis", "Vulpes"]
geo = true

[params]
interval = "Quaternary"

[filters]
ranks = ["species"]
time = true
space = true
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		}
		return nil, errors.Annotate(err,
			"cannot check config file for existence: '%s'", filePath)
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if len(c.Taxa) == 0 {
		return nil, errors.Reason("config must list at least one taxon")
	}
	if c.NameColumn == "" {
		c.NameColumn = "accepted_name"
	}
	return &c, nil
}

func printTaxon(ctx context.Context, c *Config, flags *Flags, w io.Writer, taxon string, occs *table.Table) error {
	occs = c.Filters.Apply(ctx, occs)
	fmt.Fprintf(w, "# %s: %d occurrences\n", taxon, occs.NumRows())
	spans, err := paleo.Spans(occs, c.NameColumn)
	if err != nil {
		return errors.Annotate(err, "failed to compute spans for %s", taxon)
	}
	if flags.CSV {
		err = spans.WriteCSV(w, table.Params{})
	} else {
		err = spans.WriteText(w, table.Params{})
	}
	if err != nil {
		return errors.Annotate(err, "failed to print spans for %s", taxon)
	}
	if !c.Geo {
		return nil
	}
	g, err := paleo.Geo(occs)
	if err != nil {
		logging.Warningf(ctx, "no spatial statistics for %s: %s", taxon, err.Error())
		return nil
	}
	fmt.Fprintf(w, "geo: %d points, %d pairs, km mean %.1f std %.1f min %.1f max %.1f\n",
		g.Points, g.Pairs, g.MeanKm, g.StdKm, g.MinKm, g.MaxKm)
	return nil
}

func printSpans(ctx context.Context, flags *Flags, w io.Writer) error {
	c, err := parseConfig(flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	params := dbapi.Params{}
	for k, v := range c.Params {
		params[k] = v
	}
	tables := paleo.CollectTaxa(ctx, c.Taxa, dbapi.CSV, params)
	if len(tables) == 0 {
		return errors.Reason("none of the %d taxa could be fetched", len(c.Taxa))
	}
	taxa := maps.Keys(tables)
	slices.Sort(taxa)
	for _, taxon := range taxa {
		if err := printTaxon(ctx, c, flags, w, taxon, tables[taxon]); err != nil {
			return err
		}
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

	if err := printSpans(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
