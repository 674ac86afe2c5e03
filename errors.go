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
	"errors"
	"fmt"
	"reflect"

	"github.com/selfdep/selfdep/internal/depreflect"
)

// ErrEmptySequence is returned when a sequence-shaped constructor finishes
// without yielding the value it was supposed to provide.
var ErrEmptySequence = errors.New("sequence ended without yielding a value")

// ConfigurationError reports a method or factory whose shape cannot be
// adapted. New returns it immediately; problems with a lazily resolved
// factory surface when the method is handed to a Registry.
type ConfigurationError struct {
	// Target is the method or factory that was rejected.
	Target interface{}

	// Reason describes what is wrong with Target.
	Reason string
}

func newConfigurationError(target interface{}, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Target: target, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("cannot adapt %v: %v", describe(e.Target), e.Reason)
}

func describe(target interface{}) string {
	switch t := target.(type) {
	case reflect.Type:
		return t.String()
	case nil:
		return "nil"
	}
	if reflect.TypeOf(target).Kind() == reflect.Func {
		return depreflect.FuncName(target)
	}
	return fmt.Sprintf("%T", target)
}
