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
	"errors"
	"fmt"
)

// Kind classifies a query failure.
type Kind int

// Values of Kind, in pipeline order.
const (
	KindConfiguration Kind = iota + 1 // bad local input; no network activity
	KindTransport                     // network-level failure after all retries
	KindService                       // the service self-reported a failure
	KindDecode                        // body does not parse as the declared format
)

// Error is the failure type returned by the query pipeline. None of these are
// recovered locally; they all propagate to the caller, and a failed query
// returns no table at all.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

func errorf(kind Kind, cause error, format string, args ...interface{}) error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsConfiguration tests for a caller-side mistake detected before any network
// activity: an unsupported format tag or a missing required parameter.
func IsConfiguration(err error) bool { return kindOf(err) == KindConfiguration }

// IsTransport tests for a network failure that persisted through all retry
// attempts.
func IsTransport(err error) bool { return kindOf(err) == KindTransport }

// IsService tests for a failure reported by the service itself: a JSON error
// envelope or a non-success HTTP status. These are never retried.
func IsService(err error) bool { return kindOf(err) == KindService }

// IsDecode tests for a response body that does not parse as the declared
// format.
func IsDecode(err error) bool { return kindOf(err) == KindDecode }
