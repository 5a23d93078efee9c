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

// Package cache persists query results as delimited-text snapshots keyed by
// a caller-chosen file path, so exploratory scripts do not refetch the same
// data on every run. The delimiter is inferred from the file extension:
// ".tsv" is tab-separated, anything else comma-separated.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fossildata/pbdb/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// FetchFunc produces the table when there is no usable snapshot.
type FetchFunc func(ctx context.Context) (*table.Table, error)

// Delimiter infers the snapshot's field separator from its file extension.
func Delimiter(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// Load reads the snapshot at path when it exists and refresh is false;
// otherwise it calls fetch, writes the result to path, and returns it. A
// failed fetch writes nothing and leaves any stale snapshot in place.
func Load(ctx context.Context, path string, refresh bool, fetch FetchFunc) (*table.Table, error) {
	comma := Delimiter(path)
	if !refresh {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			t, err := read(path, comma)
			if err != nil {
				return nil, err
			}
			logging.Infof(ctx, "cache: read %d rows from '%s'", t.NumRows(), path)
			return t, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, errors.Annotate(err, "cannot check snapshot for existence: '%s'", path)
		}
	}
	t, err := fetch(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch data for '%s'", path)
	}
	if err := write(path, t, comma); err != nil {
		return nil, err
	}
	logging.Infof(ctx, "cache: wrote %d rows to '%s'", t.NumRows(), path)
	return t, nil
}

func read(path string, comma rune) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open snapshot for reading: '%s'", path)
	}
	defer f.Close()
	t, err := table.ReadDelimited(f, comma)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read snapshot '%s'", path)
	}
	return t, nil
}

func write(path string, t *table.Table, comma rune) error {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Annotate(err, "failed to create snapshot directory '%s'", dir)
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Annotate(err, "failed to open snapshot for writing: '%s'", path)
	}
	defer f.Close()
	if err := t.WriteDelimited(f, comma); err != nil {
		return errors.Annotate(err, "failed to write snapshot '%s'", path)
	}
	return nil
}
