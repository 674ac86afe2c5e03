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
	"context"
	"net/http"

	"github.com/selfdep/selfdep"
)

type scopeKey struct{}

// Middleware serves every request from a fresh scope of r. The scope is
// opened with the request context, can resolve the *http.Request and its
// Query, and is closed after next returns. Teardown failures are reported
// to the registry's logger.
func Middleware(r *selfdep.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			scope, err := r.Open(req.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			defer scope.Close()

			if err := scope.Supply(req, NewQuery(req.URL.Query())); err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}

			ctx := context.WithValue(req.Context(), scopeKey{}, scope)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// ScopeFrom returns the scope Middleware opened for a request.
func ScopeFrom(ctx context.Context) (*selfdep.Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*selfdep.Scope)
	return scope, ok
}
