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
	"strconv"
	"strings"

	"go.uber.org/dig"
)

// field used for embedding dig.In in generated parameter structs.
var _inField = reflect.StructField{
	Name:      "In",
	Type:      reflect.TypeOf(dig.In{}),
	Anonymous: true,
}

// Param is one declared dependency of an adapted method.
type Param struct {
	// Index is the position of the parameter in the original method.
	// The receiver is at index 0.
	Index int

	// Type is the parameter's type, unchanged from the original method.
	Type reflect.Type

	// Tag is the dig struct tag used to resolve the parameter, such as
	// `name:"ro"` or `optional:"true"`.
	Tag reflect.StructTag
}

// Name returns the dig name the parameter is resolved by, if any.
func (p Param) Name() string { return p.Tag.Get("name") }

// Group returns the value group the parameter is resolved from, if any.
func (p Param) Group() string { return p.Tag.Get("group") }

// Optional reports whether the parameter falls back to its zero value when
// nothing in the graph provides it.
func (p Param) Optional() bool {
	ok, _ := strconv.ParseBool(p.Tag.Get("optional"))
	return ok
}

func (p Param) String() string {
	if len(p.Tag) == 0 {
		return p.Type.String()
	}
	return fmt.Sprintf("%v `%s`", p.Type, p.Tag)
}

// Signature is the parameter list an adapted method presents to the graph.
//
// Params always matches the original method's parameters after the receiver:
// same order, same types, same tags. Self replaces the receiver with a
// dependency on the method's self factory.
type Signature struct {
	Self   Param
	Params []Param
}

// Types returns the types of Params in order.
func (s Signature) Types() []reflect.Type {
	types := make([]reflect.Type, len(s.Params))
	for i, p := range s.Params {
		types[i] = p.Type
	}
	return types
}

func (s Signature) String() string {
	items := make([]string, 0, len(s.Params)+1)
	items = append(items, "self "+s.Self.String())
	for _, p := range s.Params {
		items = append(items, p.String())
	}
	return "(" + strings.Join(items, ", ") + ")"
}

// Given a signature (self R, T1, ..., TN), inType builds a type roughly
// equivalent to,
//
//	struct {
//	  dig.In
//
//	  Self   R  `name:"<self key>"`
//	  Field0 T1 `$tags[0]`
//	  ...
//	  FieldN TN `$tags[N-1]`
//	}
//
// Self comes first so that dig builds it before any other argument.
func (s Signature) inType() reflect.Type {
	fields := make([]reflect.StructField, 0, len(s.Params)+2)
	fields = append(fields, _inField, reflect.StructField{
		Name: "Self",
		Type: s.Self.Type,
		Tag:  s.Self.Tag,
	})
	for i, p := range s.Params {
		fields = append(fields, reflect.StructField{
			Name: fmt.Sprintf("Field%d", i),
			Type: p.Type,
			Tag:  p.Tag,
		})
	}
	return reflect.StructOf(fields)
}

// args maps a value of inType back to the arguments of the original method,
// receiver first.
func (s Signature) args(in reflect.Value) []reflect.Value {
	args := make([]reflect.Value, 0, in.NumField()-1)
	for i := 1; i < in.NumField(); i++ {
		args = append(args, in.Field(i))
	}
	return args
}
