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
	"fmt"
	"strconv"
	"strings"
)

// Params are the query parameters of a single request: a mapping from the
// service's parameter name to a scalar (string, number, boolean) or a
// sequence of scalars. Every value serializes to exactly one string in the
// query string; see normalizeValue. A nil map is a valid empty parameter set.
type Params map[string]interface{}

// copyParams creates a shallow copy, so the builder can inject defaults
// without mutating the caller's map.
func copyParams(p Params) Params {
	p2 := make(Params, len(p)+1)
	for k, v := range p {
		p2[k] = v
	}
	return p2
}

// normalizeValue converts a parameter value to the wire string the service
// expects. Sequences join their stringified elements with ","; an empty
// sequence yields an empty value, not an omitted parameter. Booleans render
// as the words "true"/"false". Numbers use a locale-independent decimal
// form. The function is total: any other value falls back to fmt.Sprint.
func normalizeValue(v interface{}) string {
	switch v2 := v.(type) {
	case nil:
		return ""
	case string:
		return v2
	case bool:
		return strconv.FormatBool(v2)
	case int:
		return strconv.Itoa(v2)
	case int64:
		return strconv.FormatInt(v2, 10)
	case uint:
		return strconv.FormatUint(uint64(v2), 10)
	case uint64:
		return strconv.FormatUint(v2, 10)
	case float32:
		return strconv.FormatFloat(float64(v2), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v2, 'g', -1, 64)
	case []string:
		return strings.Join(v2, ",")
	case []int:
		elems := make([]string, len(v2))
		for i, e := range v2 {
			elems[i] = strconv.Itoa(e)
		}
		return strings.Join(elems, ",")
	case []float64:
		elems := make([]string, len(v2))
		for i, e := range v2 {
			elems[i] = normalizeValue(e)
		}
		return strings.Join(elems, ",")
	case []interface{}:
		elems := make([]string, len(v2))
		for i, e := range v2 {
			elems[i] = normalizeValue(e)
		}
		return strings.Join(elems, ",")
	}
	return fmt.Sprint(v)
}
