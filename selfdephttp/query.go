// Copyright (c) 2024 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package selfdephttp

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrMissingParam is wrapped by the QueryError of a required parameter that
// was not sent.
var ErrMissingParam = errors.New("missing required parameter")

// QueryError reports a query parameter that is missing or malformed.
// Handlers respond with 400 Bad Request to errors wrapping a QueryError.
type QueryError struct {
	Param string
	Value string
	Err   error
}

func (e *QueryError) Error() string {
	if errors.Is(e.Err, ErrMissingParam) {
		return fmt.Sprintf("query parameter %q: %v", e.Param, e.Err)
	}
	return fmt.Sprintf("query parameter %q: invalid value %q: %v", e.Param, e.Value, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Query gives constructors typed access to the query string of the request
// being served.
type Query struct {
	values url.Values
}

// NewQuery wraps parsed query values.
func NewQuery(values url.Values) Query {
	return Query{values: values}
}

// Values returns the underlying query values.
func (q Query) Values() url.Values { return q.values }

// String returns the first value of a required parameter.
func (q Query) String(name string) (string, error) {
	if !q.values.Has(name) {
		return "", &QueryError{Param: name, Err: ErrMissingParam}
	}
	return q.values.Get(name), nil
}

// Float parses a required parameter as a float64.
func (q Query) Float(name string) (float64, error) {
	s, err := q.String(name)
	if err != nil {
		return 0, err
	}
	return parseFloat(name, s)
}

// OptionalFloat parses a parameter as a float64, returning nil if it was not
// sent.
func (q Query) OptionalFloat(name string) (*float64, error) {
	if !q.values.Has(name) {
		return nil, nil
	}
	f, err := parseFloat(name, q.values.Get(name))
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseFloat(name, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &QueryError{Param: name, Value: s, Err: err}
	}
	return f, nil
}
