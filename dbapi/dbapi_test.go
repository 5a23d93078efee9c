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
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// testServer is a canned-response HTTP server recording the last request,
// for driving the pipeline without a live service.
type testServer struct {
	server *httptest.Server

	ResponseBody   []string // each response pops the first element; last repeats
	ResponseStatus int      // 0 means 200

	RequestPath   string
	RequestQuery  url.Values
	RequestAccept string
	Requests      int
}

func newTestServer() *testServer {
	s := &testServer{}
	s.server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			s.Requests++
			s.RequestPath = r.URL.Path
			s.RequestQuery = r.URL.Query()
			s.RequestAccept = r.Header.Get("Accept")
			body := ""
			if len(s.ResponseBody) > 0 {
				body = s.ResponseBody[0]
				if len(s.ResponseBody) > 1 {
					s.ResponseBody = s.ResponseBody[1:]
				}
			}
			if s.ResponseStatus != 0 {
				w.WriteHeader(s.ResponseStatus)
			}
			w.Write([]byte(body))
		}))
	return s
}

func (s *testServer) URL() string { return s.server.URL }
func (s *testServer) Close()      { s.server.Close() }

// testClient points a default client at the test server with fast retries.
func (s *testServer) testClient() *Client {
	c := NewClient()
	c.BaseURL = s.URL() + "/data1.2"
	c.RetryDelay = time.Millisecond
	return c
}

func TestNormalizeValue(t *testing.T) {
	t.Parallel()

	Convey("normalizeValue", t, func() {
		Convey("sequences join with commas", func() {
			So(normalizeValue([]string{"Canis", "Vulpes"}), ShouldEqual, "Canis,Vulpes")
			So(normalizeValue([]int{1, 2, 3}), ShouldEqual, "1,2,3")
			So(normalizeValue([]float64{0.5, 23.03}), ShouldEqual, "0.5,23.03")
			So(normalizeValue([]interface{}{"a", 1, true}), ShouldEqual, "a,1,true")
		})

		Convey("empty sequence yields an empty value", func() {
			So(normalizeValue([]string{}), ShouldEqual, "")
			So(normalizeValue([]interface{}{}), ShouldEqual, "")
		})

		Convey("booleans render as words, never digits", func() {
			So(normalizeValue(true), ShouldEqual, "true")
			So(normalizeValue(false), ShouldEqual, "false")
		})

		Convey("scalars use their natural form", func() {
			So(normalizeValue("Canidae"), ShouldEqual, "Canidae")
			So(normalizeValue(1001), ShouldEqual, "1001")
			So(normalizeValue(66.043), ShouldEqual, "66.043")
			So(normalizeValue(nil), ShouldEqual, "")
		})
	})
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	base := "https://paleobiodb.org/data1.2"

	Convey("buildURL", t, func() {
		Convey("injects vocab=pbdb for text formats", func() {
			uri, err := buildURL(base, "occs/list", CSV, Params{"base_name": "Canidae"})
			So(err, ShouldBeNil)
			So(uri, ShouldEqual,
				base+"/occs/list.csv?base_name=Canidae&vocab=pbdb")
		})

		Convey("caller-supplied vocab is respected, not duplicated", func() {
			params := Params{"base_name": "Canidae", "vocab": "com"}
			uri, err := buildURL(base, "occs/list", TSV, params)
			So(err, ShouldBeNil)
			So(uri, ShouldContainSubstring, "vocab=com")
			So(uri, ShouldNotContainSubstring, "vocab=pbdb")
			// The caller's map is never mutated.
			So(len(params), ShouldEqual, 2)
		})

		Convey("no injection for JSON", func() {
			uri, err := buildURL(base, "occs/single", JSON, Params{"id": 1001})
			So(err, ShouldBeNil)
			So(uri, ShouldEqual, base+"/occs/single.json?id=1001")
			So(uri, ShouldNotContainSubstring, "vocab")
		})

		Convey("no caller map mutation on injection", func() {
			params := Params{"base_name": "Canidae"}
			_, err := buildURL(base, "occs/list", TXT, params)
			So(err, ShouldBeNil)
			So(len(params), ShouldEqual, 1)
		})

		Convey("no query separator without parameters", func() {
			uri, err := buildURL(base, "config", JSON, nil)
			So(err, ShouldBeNil)
			So(uri, ShouldEqual, base+"/config.json")
		})

		Convey("unsupported format fails as a configuration error", func() {
			_, err := buildURL(base, "occs/list", Format("xml"), nil)
			So(err, ShouldNotBeNil)
			So(IsConfiguration(err), ShouldBeTrue)
		})
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	Convey("Query end to end against a canned server", t, func() {
		server := newTestServer()
		defer server.Close()
		ctx := UseClient(context.Background(), server.testClient())

		Convey("CSV request and decode", func() {
			server.ResponseBody = []string{
				"occurrence_no,taxon_name,max_ma\n1001,Canis dirus,0.126\n1002,Canis lupus,0.0117\n"}
			tbl, err := Query(ctx, "occs/list", CSV,
				Params{"base_name": "Canidae", "limit": 5})
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/data1.2/occs/list.csv")
			So(server.RequestQuery, ShouldResemble, url.Values{
				"base_name": []string{"Canidae"},
				"limit":     []string{"5"},
				"vocab":     []string{"pbdb"},
			})
			So(server.RequestAccept, ShouldEqual, "text/csv")
			So(tbl.NumRows(), ShouldEqual, 2)
			So(tbl.Header(), ShouldResemble,
				[]string{"occurrence_no", "taxon_name", "max_ma"})
			So(tbl.Cell(1, "taxon_name").String(), ShouldEqual, "Canis lupus")
		})

		Convey("zero-valued format means CSV", func() {
			server.ResponseBody = []string{"a,b\n1,2\n"}
			tbl, err := Query(ctx, "occs/list", "", nil)
			So(err, ShouldBeNil)
			So(strings.HasSuffix(server.RequestPath, ".csv"), ShouldBeTrue)
			So(tbl.NumRows(), ShouldEqual, 1)
		})

		Convey("JSON request and decode", func() {
			server.ResponseBody = []string{`{"records": [{"oid": "occ:1001"}]}`}
			tbl, err := Query(ctx, "occs/list", JSON, Params{"base_name": "Canidae"})
			So(err, ShouldBeNil)
			So(server.RequestPath, ShouldEqual, "/data1.2/occs/list.json")
			So(server.RequestAccept, ShouldEqual, "application/json")
			So(server.RequestQuery.Get("vocab"), ShouldEqual, "")
			So(tbl.NumRows(), ShouldEqual, 1)
		})

		Convey("configuration failure issues no request", func() {
			_, err := Query(ctx, "occs/list", Format("xml"), nil)
			So(IsConfiguration(err), ShouldBeTrue)
			So(server.Requests, ShouldEqual, 0)
		})

		Convey("service error envelope fails the query", func() {
			server.ResponseBody = []string{`{"error": "bad taxon"}`}
			_, err := Query(ctx, "occs/list", JSON, nil)
			So(err, ShouldNotBeNil)
			So(IsService(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "bad taxon")
		})

		Convey("client defaults", func() {
			So(GetClient(context.Background()), ShouldBeNil)
			c := NewClient()
			So(c.BaseURL, ShouldEqual, URL)
			So(c.Timeout, ShouldEqual, DefaultTimeout)
			So(c.Retries, ShouldEqual, DefaultRetries)
		})
	})
}
