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

// Resolve returns the value of an adapted method within s: the receiver is
// built by the method's self factory, the remaining arguments are resolved
// from the scope, and the result is cached for the rest of the scope.
//
// The method must have been provided to the registry that opened s, and T
// must be the type of the value it provides.
//
//	v, err := selfdep.Resolve[float64](scope, scaled)
func Resolve[T any](s *Scope, a *Adapted) (T, error) {
	var out T
	want := reflect.TypeOf(&out).Elem()
	if want != a.ValueType() {
		return out, fmt.Errorf("cannot resolve %v as %v: it provides %v", a, want, a.ValueType())
	}

	inType := reflect.StructOf([]reflect.StructField{
		_inField,
		{
			Name: "Value",
			Type: want,
			Tag:  reflect.StructTag(fmt.Sprintf("name:%q", a.Name())),
		},
	})
	fn := reflect.MakeFunc(reflect.FuncOf([]reflect.Type{inType}, nil, false), func(args []reflect.Value) []reflect.Value {
		reflect.ValueOf(&out).Elem().Set(args[0].Field(1))
		return nil
	})
	if err := s.Invoke(fn.Interface()); err != nil {
		return out, err
	}
	return out, nil
}
