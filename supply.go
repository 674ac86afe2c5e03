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
	"strings"

	"github.com/selfdep/selfdep/internal/depreflect"
)

var (
	errSupplyNil   = errors.New("untyped nil has no type to provide")
	errSupplyError = errors.New("error values cannot be supplied")
)

// Supply registers ready-made values with the registry. Each value is
// provided under its dynamic type, or under the name or group of the
// Annotated wrapping it. The registry holds one copy of every value and hands
// it to each scope it opens; a value that belongs to a single request goes
// through Scope.Supply instead.
//
//	registry := selfdep.NewRegistry(
//		selfdep.Supply(cfg, selfdep.Annotated{Name: "region", Target: "eu-west-1"}),
//		selfdep.Provide(scaled),
//	)
//
// Supply panics when given an untyped nil or an error, since neither names
// a type that methods could depend on.
func Supply(values ...interface{}) Option {
	o := supplyOption{Caller: depreflect.Caller()}
	for _, value := range values {
		ann, annotated := value.(Annotated)
		if annotated {
			value = ann.Target
		}

		ctor, typ, err := valueConstructor(value)
		if err != nil {
			panic(fmt.Sprintf("selfdep.Supply: %v", err))
		}
		o.Types = append(o.Types, typ)

		if annotated {
			ann.Target = ctor
			o.Targets = append(o.Targets, ann)
		} else {
			o.Targets = append(o.Targets, ctor)
		}
	}
	return o
}

type supplyOption struct {
	Targets []interface{}
	Types   []reflect.Type
	Caller  string
}

func (o supplyOption) apply(r *Registry) {
	for _, target := range o.Targets {
		r.provides = append(r.provides, provide{
			Target:   target,
			Caller:   o.Caller,
			IsSupply: true,
		})
	}
}

func (o supplyOption) String() string {
	names := make([]string, len(o.Types))
	for i, typ := range o.Types {
		names[i] = typ.String()
	}
	return fmt.Sprintf("selfdep.Supply(%s)", strings.Join(names, ", "))
}

// valueConstructor wraps value in a func() T that returns it, T being the
// dynamic type of value.
func valueConstructor(value interface{}) (ctor interface{}, typ reflect.Type, err error) {
	switch value.(type) {
	case nil:
		return nil, nil, errSupplyNil
	case error:
		return nil, nil, errSupplyError
	}

	typ = reflect.TypeOf(value)
	out := []reflect.Value{reflect.ValueOf(value)}
	fn := reflect.MakeFunc(
		reflect.FuncOf(nil, []reflect.Type{typ}, false),
		func([]reflect.Value) []reflect.Value { return out },
	)
	return fn.Interface(), typ, nil
}
