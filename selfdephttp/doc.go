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

// Package selfdephttp serves HTTP requests from selfdep scopes.
//
// Middleware opens one scope per request and closes it once the response is
// written, so a receiver built by a self factory lives exactly as long as
// the request that needed it. Handlers receive their arguments from that
// scope:
//
//	registry := selfdep.NewRegistry(
//		selfdep.Provide(NewBase, selfdep.Must((*Foo).Scale)),
//	)
//
//	r := chi.NewRouter()
//	r.Use(selfdephttp.Middleware(registry))
//	selfdephttp.Route(r, "/scale", func(p struct {
//		selfdep.In
//
//		Value float64 `name:"Foo.Scale"`
//	}) (float64, error) {
//		return p.Value, nil
//	})
//
// Every scope can also resolve the *http.Request being served and its Query.
package selfdephttp
