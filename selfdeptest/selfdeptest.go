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

// Package selfdeptest provides helpers for testing code built on selfdep.
package selfdeptest

import (
	"context"
	"strings"

	"github.com/selfdep/selfdep"
	"github.com/selfdep/selfdep/selfdepevent"
)

// TB is a subset of the standard library's testing.TB interface. It's
// satisfied by both *testing.T and *testing.B.
type TB interface {
	Logf(string, ...interface{})
	Errorf(string, ...interface{})
	FailNow()
}

// Registry is a wrapper around selfdep.Registry that fails the test instead
// of returning errors.
type Registry struct {
	*selfdep.Registry

	tb TB
}

// New builds a registry for use in tests, failing the test if the registry
// cannot be built. Events are written to the test log unless opts carry a
// logger of their own.
func New(tb TB, opts ...selfdep.Option) *Registry {
	opts = append([]selfdep.Option{selfdep.WithLogger(NewTestLogger(tb))}, opts...)
	r := selfdep.NewRegistry(opts...)
	if err := r.Err(); err != nil {
		tb.Errorf("selfdep.NewRegistry failed: %v", err)
		tb.FailNow()
	}
	return &Registry{Registry: r, tb: tb}
}

// RequireOpen opens a scope with a background context, failing the test on
// error.
func (r *Registry) RequireOpen() *Scope {
	return r.RequireOpenContext(context.Background())
}

// RequireOpenContext opens a scope with ctx, failing the test on error.
func (r *Registry) RequireOpenContext(ctx context.Context) *Scope {
	s, err := r.Open(ctx)
	if err != nil {
		r.tb.Errorf("scope didn't open cleanly: %v", err)
		r.tb.FailNow()
	}
	return &Scope{Scope: s, tb: r.tb}
}

// Scope is a wrapper around selfdep.Scope with test helpers.
type Scope struct {
	*selfdep.Scope

	tb TB
}

// RequireInvoke calls Invoke, failing the test if fn could not be called
// or returned an error.
func (s *Scope) RequireInvoke(fn interface{}) *Scope {
	if s.Scope == nil {
		return s
	}
	if err := s.Invoke(fn); err != nil {
		s.tb.Errorf("invoke failed: %v", err)
		s.tb.FailNow()
	}
	return s
}

// RequireClose calls Close, failing the test if any teardown func failed.
func (s *Scope) RequireClose() {
	if s.Scope == nil {
		return
	}
	if err := s.Close(); err != nil {
		s.tb.Errorf("scope didn't close cleanly: %v", err)
		s.tb.FailNow()
	}
}

// RequireResolve resolves an adapted method in s, failing the test on error.
func RequireResolve[T any](s *Scope, a *selfdep.Adapted) T {
	var zero T
	if s.Scope == nil {
		return zero
	}
	v, err := selfdep.Resolve[T](s.Scope, a)
	if err != nil {
		s.tb.Errorf("resolving %v failed: %v", a, err)
		s.tb.FailNow()
		return zero
	}
	return v
}

// NewTestLogger returns a selfdepevent.Logger that writes to the test log.
func NewTestLogger(tb TB) selfdepevent.Logger {
	return &selfdepevent.ConsoleLogger{W: testPrinter{tb}}
}

type testPrinter struct{ TB }

func (p testPrinter) Write(b []byte) (int, error) {
	p.Logf("%s", strings.TrimRight(string(b), "\n"))
	return len(b), nil
}
