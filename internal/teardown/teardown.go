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

// Package teardown implements the LIFO stack of release funcs owned by a
// request scope.
package teardown

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/selfdep/selfdep/internal/depreflect"
	"github.com/selfdep/selfdep/selfdepevent"
)

// ErrDone is returned by Push once the stack has run.
var ErrDone = errors.New("teardown already ran")

// Hook is a release func and the metadata used to report on it.
type Hook struct {
	Func func() error

	// Name identifies Func in events. Defaults to the func's own name.
	Name string

	caller string
}

func (h Hook) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("teardown %v panicked: %v", h.Name, r)
		}
	}()
	return h.Func()
}

// Stack runs its hooks in reverse order of registration.
type Stack struct {
	logger selfdepevent.Logger
	now    func() time.Time

	mu    sync.Mutex
	hooks []Hook
	done  bool
}

// Option configures a Stack.
type Option func(*Stack)

// WithNow sets the time source used to measure hook runtimes. Defaults to
// time.Now.
func WithNow(now func() time.Time) Option {
	return func(s *Stack) { s.now = now }
}

// New builds an empty Stack reporting to logger. A nil logger discards events.
func New(logger selfdepevent.Logger, opts ...Option) *Stack {
	if logger == nil {
		logger = selfdepevent.NopLogger
	}
	s := &Stack{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push registers a hook. It fails with ErrDone after Run.
func (s *Stack) Push(hook Hook) error {
	if len(hook.Name) == 0 {
		hook.Name = depreflect.FuncName(hook.Func)
	}
	hook.caller = depreflect.Caller()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return ErrDone
	}
	s.hooks = append(s.hooks, hook)
	return nil
}

// Len reports the number of pending hooks.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hooks)
}

// Run executes every pending hook, last registered first. Hooks that fail or
// panic don't stop the ones below them; their errors are combined, with a
// panic reported as an error. Subsequent calls are no-ops.
func (s *Stack) Run() error {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.done = true
	s.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		s.logger.LogEvent(&selfdepevent.TeardownExecuting{
			FunctionName: hook.Name,
			CallerName:   hook.caller,
		})

		begin := s.now()
		err := hook.run()
		s.logger.LogEvent(&selfdepevent.TeardownExecuted{
			FunctionName: hook.Name,
			CallerName:   hook.caller,
			Runtime:      s.now().Sub(begin),
			Err:          err,
		})
		if err != nil {
			// For best-effort cleanup, keep going after errors.
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}
