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
	"sync"

	"go.uber.org/dig"

	"github.com/selfdep/selfdep/internal/teardown"
	"github.com/selfdep/selfdep/selfdepevent"
)

// Scope resolves dependencies for one unit of work. Values are built on
// demand and cached for the life of the scope. Anything that needs releasing,
// such as the sequence behind a sequence-shaped constructor, is released by
// Close in reverse order of acquisition.
//
// Constructors can depend on *Scope and context.Context; both are always
// available.
type Scope struct {
	ctx       context.Context
	container *dig.Container
	teardown  *teardown.Stack
	logger    selfdepevent.Logger

	closeOnce sync.Once
}

func newScope(ctx context.Context, logger selfdepevent.Logger, opts ...dig.Option) *Scope {
	return &Scope{
		ctx:       ctx,
		container: dig.New(opts...),
		teardown:  teardown.New(logger),
		logger:    logger,
	}
}

func (s *Scope) provideBuiltins() error {
	if err := s.container.Provide(func() context.Context { return s.ctx }); err != nil {
		return fmt.Errorf("providing context.Context: %w", err)
	}
	if err := s.container.Provide(func() *Scope { return s }); err != nil {
		return fmt.Errorf("providing *selfdep.Scope: %w", err)
	}
	return nil
}

func (s *Scope) provide(n node) error {
	if err := s.container.Provide(n.Ctor, n.Opts...); err != nil {
		return fmt.Errorf("selfdep.Provide(%v) from %v failed: %w", n, n.Caller, err)
	}
	return nil
}

// Supply adds values to this scope only, as if by selfdep.Supply. It makes
// per-request values such as the incoming *http.Request available to
// constructors, and must be called before anything depending on them is
// resolved.
func (s *Scope) Supply(values ...interface{}) error {
	for _, value := range values {
		ctor, typ, err := valueConstructor(value)
		if err != nil {
			return fmt.Errorf("selfdep.Scope.Supply: %w", err)
		}
		if err := s.container.Provide(ctor); err != nil {
			return fmt.Errorf("selfdep.Scope.Supply(%v) failed: %w", typ, err)
		}
	}
	return nil
}

// Context returns the context the scope was opened with.
func (s *Scope) Context() context.Context { return s.ctx }

// Invoke runs fn with its parameters resolved from the scope. If fn's last
// result is an error, Invoke returns it.
//
// Errors raised by constructors, including self factories and adapted
// methods, are returned wrapped by dig; errors.Is and errors.As see through
// the wrapping.
func (s *Scope) Invoke(fn interface{}) error {
	s.logger.LogEvent(&selfdepevent.Invoking{Function: fn})
	err := s.container.Invoke(fn)
	s.logger.LogEvent(&selfdepevent.Invoked{Function: fn, Err: err})
	return err
}

// Defer registers fn to run when the scope closes. It fails once the scope
// is closed.
func (s *Scope) Defer(fn func() error) error {
	return s.teardown.Push(teardown.Hook{Func: fn})
}

// Close releases everything acquired by the scope, most recent first. All
// release funcs run even if some fail or panic; their errors are combined.
// Calls after the first return nil.
func (s *Scope) Close() (err error) {
	s.closeOnce.Do(func() {
		err = s.teardown.Run()
		s.logger.LogEvent(&selfdepevent.ScopeClosed{Err: err})
	})
	return err
}
