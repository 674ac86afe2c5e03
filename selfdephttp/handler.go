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
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	json "github.com/json-iterator/go"
)

var _typeOfError = reflect.TypeOf((*error)(nil)).Elem()

var errNoScope = errors.New("request is not served by selfdephttp.Middleware")

// Handle returns a handler that invokes fn within the request's scope and
// writes its result as JSON. fn's parameters are resolved from the scope and
// it must return a value and an error:
//
//	func(q selfdephttp.Query, foo *Foo) (float64, error)
//
// Errors wrapping a *QueryError produce 400 Bad Request, others 500 Internal
// Server Error, with a body of the form {"error": "..."}.
//
// Handle panics if fn does not have that shape.
func Handle(fn interface{}) http.HandlerFunc {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		panic(fmt.Sprintf("selfdephttp.Handle expects a function, got %T", fn))
	}
	ft := fv.Type()
	if ft.NumOut() != 2 || ft.Out(1) != _typeOfError {
		panic(fmt.Sprintf("selfdephttp.Handle expects a function returning (T, error), got %v", ft))
	}

	ins := make([]reflect.Type, ft.NumIn())
	for i := range ins {
		ins[i] = ft.In(i)
	}
	invokeType := reflect.FuncOf(ins, []reflect.Type{_typeOfError}, ft.IsVariadic())

	return func(w http.ResponseWriter, req *http.Request) {
		scope, ok := ScopeFrom(req.Context())
		if !ok {
			writeError(w, http.StatusInternalServerError, errNoScope)
			return
		}

		var result reflect.Value
		invoke := reflect.MakeFunc(invokeType, func(args []reflect.Value) []reflect.Value {
			var out []reflect.Value
			if ft.IsVariadic() {
				out = fv.CallSlice(args)
			} else {
				out = fv.Call(args)
			}
			result = out[0]
			return out[1:]
		})
		if err := scope.Invoke(invoke.Interface()); err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		writeJSON(w, http.StatusOK, result.Interface())
	}
}

// Route registers fn as the GET handler for pattern.
func Route(r chi.Router, pattern string, fn interface{}) {
	r.Get(pattern, Handle(fn))
}

func statusOf(err error) int {
	var qerr *QueryError
	if errors.As(err, &qerr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
