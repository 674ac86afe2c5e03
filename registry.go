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

package selfdep

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"github.com/selfdep/selfdep/internal/depreflect"
	"github.com/selfdep/selfdep/selfdepevent"
)

// An Option configures a Registry.
type Option interface {
	fmt.Stringer

	apply(*Registry)
}

// WithLogger specifies the logger that receives the events of the registry
// and of every scope it opens. It defaults to selfdepevent.NopLogger.
func WithLogger(logger selfdepevent.Logger) Option {
	return withLoggerOption{logger}
}

type withLoggerOption struct{ logger selfdepevent.Logger }

func (o withLoggerOption) apply(r *Registry) {
	if o.logger == nil {
		r.logger = selfdepevent.NopLogger
		return
	}
	r.logger = o.logger
}

func (o withLoggerOption) String() string {
	return fmt.Sprintf("selfdep.WithLogger(%T)", o.logger)
}

// Registry holds the constructors, values and adapted methods available to
// request scopes. It is immutable once built and safe for concurrent use.
type Registry struct {
	logger   selfdepevent.Logger
	provides []provide
	nodes    []node
	err      error
}

// NewRegistry builds a Registry from the given options. Errors are reported
// through Err, and by every call to Open.
//
// The registry checks that every target can be provided: constructors are
// well-formed, names don't collide and adapted methods have a usable self
// factory. Missing dependencies are only detected when a scope needs them.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{logger: selfdepevent.NopLogger}
	for _, opt := range opts {
		opt.apply(r)
	}
	r.err = r.build()
	return r
}

// Err returns any error encountered while building the registry.
func (r *Registry) Err() error {
	return r.err
}

func (r *Registry) build() error {
	seen := make(map[string]struct{})
	for _, p := range r.provides {
		nodes, err := compile(p, seen)
		if err != nil {
			r.logger.LogEvent(&selfdepevent.Provided{Constructor: p.Target, Err: err})
			return err
		}
		r.nodes = append(r.nodes, nodes...)
	}

	// Provide everything once, without running anything, so that malformed
	// graphs fail here rather than on the first request.
	s := newScope(context.Background(), r.logger, dig.DryRun(true))
	if err := s.provideBuiltins(); err != nil {
		return err
	}
	for _, n := range r.nodes {
		err := s.provide(n)
		r.logNode(n, err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) logNode(n node, err error) {
	switch {
	case n.IsSupply:
		var typeName string
		if types := depreflect.ReturnTypes(n.Ctor); len(types) > 0 {
			typeName = types[0]
		}
		r.logger.LogEvent(&selfdepevent.Supplied{TypeName: typeName, Err: err})
	case n.Adapted != nil:
		if err == nil {
			r.logger.LogEvent(&selfdepevent.Adapted{
				Method:  n.Source,
				Name:    n.Adapted.Name(),
				Kind:    n.Adapted.Kind().String(),
				SelfKey: n.Adapted.SelfKey(),
			})
		}
		r.logger.LogEvent(&selfdepevent.Provided{
			Constructor:     n.Source,
			OutputTypeNames: []string{n.Adapted.ValueType().String()},
			Name:            n.Name,
			Err:             err,
		})
	default:
		r.logger.LogEvent(&selfdepevent.Provided{
			Constructor:     n.Source,
			OutputTypeNames: depreflect.ReturnTypes(n.Ctor),
			Name:            n.Name,
			Err:             err,
		})
	}
}

// Open builds a Scope for one unit of work, typically a request. The scope
// resolves values with a fresh container, so each constructor runs at most
// once per scope and nothing is shared between scopes except supplied values.
//
// ctx is available to constructors as a context.Context. Callers must Close
// the scope.
func (r *Registry) Open(ctx context.Context) (*Scope, error) {
	if r.err != nil {
		return nil, r.err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := newScope(ctx, r.logger)
	err := s.provideBuiltins()
	for _, n := range r.nodes {
		if err != nil {
			break
		}
		err = s.provide(n)
	}
	r.logger.LogEvent(&selfdepevent.ScopeOpened{Err: err})
	if err != nil {
		return nil, err
	}
	return s, nil
}
