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

// Package depreflect holds the reflection helpers used to name functions and
// types in selfdep errors and events.
package depreflect

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

var _errType = reflect.TypeOf((*error)(nil)).Elem()

// ReturnTypes takes a func and returns a slice of string'd types.
func ReturnTypes(t interface{}) []string {
	rtypes := []string{}
	fn := reflect.ValueOf(t).Type()

	for i := 0; i < fn.NumOut(); i++ {
		if !isErr(fn.Out(i)) {
			rtypes = append(rtypes, fn.Out(i).String())
		}
	}

	return rtypes
}

// Caller returns the name of the first function on the current call stack
// that is neither part of selfdep nor of the reflection and DI machinery it
// calls through.
func Caller() string {
	// Ascend at most 32 frames looking for a caller outside selfdep.
	pcs := make([]uintptr, 32)

	// Don't include this frame.
	n := runtime.Callers(1, pcs)
	if n == 0 {
		return "n/a"
	}

	frames := runtime.CallersFrames(pcs[:n])
	for f, more := frames.Next(); ; f, more = frames.Next() {
		if !shouldIgnoreFrame(f) {
			return f.Function
		}
		if !more {
			break
		}
	}
	return "n/a"
}

// FuncName returns a funcs formatted name, or "n/a" for anything that is not
// a func.
func FuncName(fn interface{}) string {
	fnV := reflect.ValueOf(fn)
	if fnV.Kind() != reflect.Func {
		return "n/a"
	}

	fnName := runtime.FuncForPC(fnV.Pointer()).Name()
	return fmt.Sprintf("%s()", fnName)
}

// ShortName returns the name of fn without its import path or receiver
// decoration, so that a method expression like (*pkg.Foo).Scale becomes
// "Foo.Scale".
func ShortName(fn interface{}) string {
	fnV := reflect.ValueOf(fn)
	if fnV.Kind() != reflect.Func {
		return "n/a"
	}
	name := runtime.FuncForPC(fnV.Pointer()).Name()
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.NewReplacer("(*", "", "(", "", ")", "").Replace(name)
}

// Closure names carry a ".funcN" or ".gowrapN" suffix, and all
// instantiations of a generic function print as "[...]".
var _sharedName = regexp.MustCompile(`\.(func|gowrap)\d+|-fm$|\[\.\.\.\]`)

// NameIsUnique reports whether fn is the only func value with its runtime
// name. Top-level functions and method expressions are. Closures, method
// values, generic instantiations and reflect.MakeFunc results are not: every
// value made from the same source shares one name.
func NameIsUnique(fn interface{}) bool {
	fnV := reflect.ValueOf(fn)
	if fnV.Kind() != reflect.Func || fnV.IsNil() {
		return false
	}
	f := runtime.FuncForPC(fnV.Pointer())
	if f == nil {
		return false
	}
	name := f.Name()
	return !strings.HasPrefix(name, "reflect.") && !_sharedName.MatchString(name)
}

func isErr(t reflect.Type) bool {
	return t.Implements(_errType)
}

func shouldIgnoreFrame(f runtime.Frame) bool {
	if strings.Contains(f.File, "_test.go") {
		return false
	}
	for _, prefix := range _ignoredPrefixes {
		if strings.HasPrefix(f.Function, prefix) {
			return true
		}
	}
	return false
}

// Frames from these packages never count as the caller: selfdep itself, and
// the machinery it calls user code through.
var _ignoredPrefixes = []string{
	"github.com/selfdep/selfdep",
	"go.uber.org/dig",
	"reflect.",
	"runtime.",
	"iter.",
}
