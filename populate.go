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
	"fmt"
	"reflect"
)

// Populate sets each target, a non-nil pointer, to the value of its element
// type resolved from the scope.
//
//	var tx *sql.Tx
//	if err := scope.Populate(&tx); err != nil {
//		return err
//	}
//
// A target pointing at a struct that embeds selfdep.In is filled as a
// parameter object, so named values and groups can be populated too.
func (s *Scope) Populate(targets ...interface{}) error {
	invokeErr := func(format string, args ...interface{}) error {
		return fmt.Errorf("failed to Populate: "+format, args...)
	}

	types := make([]reflect.Type, len(targets))
	for i, t := range targets {
		if t == nil {
			return invokeErr("target %v is nil", i+1)
		}
		rt := reflect.TypeOf(t)
		if rt.Kind() != reflect.Ptr {
			return invokeErr("target %v is not a pointer type, got %T", i+1, t)
		}
		if reflect.ValueOf(t).IsNil() {
			return invokeErr("target %v is a nil pointer, got %T", i+1, t)
		}
		types[i] = rt.Elem()
	}

	// Build a function that looks like:
	//
	// func(t1 T1, t2 T2, ...) {
	//   *targets[0] = t1
	//   *targets[1] = t2
	//   [...]
	// }
	fnType := reflect.FuncOf(types, nil, false /* variadic */)
	fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		for i, arg := range args {
			reflect.ValueOf(targets[i]).Elem().Set(arg)
		}
		return nil
	})
	return s.Invoke(fn.Interface())
}
