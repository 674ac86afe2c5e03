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
	"sync"

	"go.uber.org/dig"
)

// factoryRef points at the constructor that produces the receiver of an
// adapted method. The constructor is checked, or derived from the receiver
// type, on first use rather than when the method is adapted.
type factoryRef struct {
	recv   reflect.Type
	target interface{} // nil selects the struct constructor
	key    string

	once sync.Once
	ctor interface{}
	err  error
}

// newFactoryRef keys the receiver's constructor. id names an explicit
// factory and is empty for the struct constructor.
func newFactoryRef(recv reflect.Type, target interface{}, id string) *factoryRef {
	return &factoryRef{
		recv:   recv,
		target: target,
		key:    fmt.Sprintf("selfdep.self[%v]%v", typeKey(recv), id),
	}
}

var _typeKeys = struct {
	sync.Mutex
	seen map[string][]reflect.Type
}{seen: make(map[string][]reflect.Type)}

// typeKey names t by its import path. Distinct types that still print the
// same, such as types declared inside two different functions, get a "#N"
// suffix in the order they are first seen.
func typeKey(t reflect.Type) string {
	var stars string
	for t.Kind() == reflect.Ptr && t.Name() == "" {
		stars += "*"
		t = t.Elem()
	}
	name := t.String()
	if len(t.PkgPath()) > 0 && len(t.Name()) > 0 {
		name = t.PkgPath() + "." + t.Name()
	}
	name = stars + name

	_typeKeys.Lock()
	defer _typeKeys.Unlock()
	types := _typeKeys.seen[name]
	for i, other := range types {
		if other == t {
			return indexed(name, i)
		}
	}
	_typeKeys.seen[name] = append(types, t)
	return indexed(name, len(types))
}

func indexed(name string, i int) string {
	if i == 0 {
		return name
	}
	return fmt.Sprintf("%s#%d", name, i+1)
}

func (f *factoryRef) resolve() (interface{}, error) {
	f.once.Do(func() {
		if f.target != nil {
			f.ctor, f.err = checkFactory(f.recv, f.target)
		} else {
			f.ctor, f.err = structConstructor(f.recv)
		}
	})
	return f.ctor, f.err
}

// checkFactory verifies that target is a constructor for recv.
func checkFactory(recv reflect.Type, target interface{}) (interface{}, error) {
	ft := reflect.TypeOf(target)
	if ft.Kind() != reflect.Func {
		return nil, newConfigurationError(target, "factory must be a function, got %v", ft)
	}
	if reflect.ValueOf(target).IsNil() {
		return nil, newConfigurationError(target, "factory must not be a nil function")
	}
	shape, reason := resultShapeOf(ft)
	if len(reason) > 0 {
		return nil, newConfigurationError(target, "factory %v", reason)
	}
	if shape.Value != recv {
		return nil, newConfigurationError(target, "factory produces %v, method receiver is %v", shape.Value, recv)
	}
	return target, nil
}

// Given a receiver *T where
//
//	type T struct {
//	  A Foo
//	  B Bar `name:"b" optional:"true"`
//	  c int
//	}
//
// structConstructor builds a constructor roughly equivalent to,
//
//	func(p struct {
//	  dig.In
//
//	  A Foo
//	  B Bar `name:"b" optional:"true"`
//	}) *T {
//	  return &T{A: p.A, B: p.B}
//	}
//
// Unexported fields are left at their zero value.
func structConstructor(recv reflect.Type) (interface{}, error) {
	st := recv
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, newConfigurationError(recv,
			"receiver is not a struct and has no default constructor; pass one with selfdep.Factory")
	}

	if dig.IsIn(st) || dig.IsOut(st) {
		return nil, newConfigurationError(recv,
			"receiver embeds dig.In or dig.Out and cannot be provided; pass a constructor with selfdep.Factory")
	}

	fields := []reflect.StructField{_inField}
	var offsets []int
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		fields = append(fields, reflect.StructField{
			Name: f.Name,
			Type: f.Type,
			Tag:  f.Tag,
		})
		offsets = append(offsets, i)
	}

	inType := reflect.StructOf(fields)
	ctorType := reflect.FuncOf([]reflect.Type{inType}, []reflect.Type{recv}, false)
	ctor := reflect.MakeFunc(ctorType, func(args []reflect.Value) []reflect.Value {
		ptr := reflect.New(st)
		v := ptr.Elem()
		for j, i := range offsets {
			v.Field(i).Set(args[0].Field(j + 1))
		}
		if recv.Kind() == reflect.Ptr {
			return []reflect.Value{ptr}
		}
		return []reflect.Value{v}
	})
	return ctor.Interface(), nil
}
