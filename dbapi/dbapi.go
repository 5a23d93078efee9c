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
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fossildata/pbdb/table"
	"github.com/stockparfait/logging"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the data service. It may be overwritten in
// tests before creating a new client.
var URL = "https://paleobiodb.org/data1.2"

// Format is the response format tag. It determines the endpoint suffix, the
// parse strategy, and whether the default vocabulary is injected.
type Format string

// The closed set of supported format tags. The zero value of Format selects
// CSV in Query.
const (
	JSON = Format("json")
	CSV  = Format("csv")
	TSV  = Format("tsv")
	TXT  = Format("txt")
)

var formatSuffix = map[Format]string{
	JSON: ".json",
	CSV:  ".csv",
	TSV:  ".tsv",
	TXT:  ".txt",
}

var formatDelimiter = map[Format]rune{
	CSV: ',',
	TSV: '\t',
	TXT: ',',
}

var formatAccept = map[Format]string{
	JSON: "application/json",
	CSV:  "text/csv",
	TSV:  "text/tab-separated-values",
	TXT:  "text/plain",
}

// Defaults used by NewClient and by zero-valued Client fields.
const (
	DefaultTimeout    = 300 * time.Second
	DefaultRetries    = 3
	DefaultRetryDelay = 500 * time.Millisecond
)

// Client holds the connection settings of the query pipeline. A Client keeps
// no mutable state across calls, so a single instance may be shared by
// concurrent queries.
type Client struct {
	BaseURL    string        // base URL including the version segment
	Timeout    time.Duration // per-attempt read timeout
	Retries    int           // total attempts on transport failure
	RetryDelay time.Duration // attempt n waits n*RetryDelay before retrying
	HTTPClient *http.Client
}

// NewClient creates a client with the default settings.
func NewClient() *Client {
	return &Client{
		BaseURL:    URL,
		Timeout:    DefaultTimeout,
		Retries:    DefaultRetries,
		RetryDelay: DefaultRetryDelay,
		HTTPClient: http.DefaultClient,
	}
}

// UseClient injects the client into the context for Query and the endpoint
// wrappers to use.
func UseClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// buildURL composes the full request URL: base URL, endpoint path, format
// suffix, and the percent-encoded query string. For text formats without a
// caller-supplied "vocab" parameter it injects vocab=pbdb into a copy of
// params; the caller's map is never mutated.
func buildURL(base, endpoint string, format Format, params Params) (string, error) {
	suffix, ok := formatSuffix[format]
	if !ok {
		return "", errorf(KindConfiguration, nil, "unsupported format '%s'", format)
	}
	if format != JSON {
		if _, ok := params["vocab"]; !ok {
			params = copyParams(params)
			params["vocab"] = "pbdb"
		}
	}
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, normalizeValue(v))
	}
	uri := strings.TrimSuffix(base, "/") + "/" + endpoint + suffix
	if encoded := values.Encode(); encoded != "" {
		uri += "?" + encoded
	}
	return uri, nil
}

// Query is the single choke point of the pipeline: it normalizes params,
// builds the URL, performs the GET with the retry policy of the client in
// the context (a default client when none is installed), and decodes the
// body by format. All failures propagate unchanged to the caller.
func Query(ctx context.Context, endpoint string, format Format, params Params) (*table.Table, error) {
	if format == "" {
		format = CSV
	}
	client := GetClient(ctx)
	if client == nil {
		client = NewClient()
	}
	uri, err := buildURL(client.BaseURL, endpoint, format, params)
	if err != nil {
		return nil, err
	}
	body, err := client.get(ctx, uri, formatAccept[format])
	if err != nil {
		return nil, err
	}
	tbl, err := decode(body, format)
	if err != nil {
		return nil, err
	}
	logging.Infof(ctx, "PBDB: fetched %s with %d rows", endpoint, tbl.NumRows())
	return tbl, nil
}
