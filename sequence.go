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
	"iter"
	"reflect"

	"github.com/selfdep/selfdep/internal/teardown"
)

var _typeOfScope = reflect.TypeOf((*Scope)(nil))

// Given a constructor func(T1, ..., TN) iter.Seq[V], asDependency returns
// a constructor roughly equivalent to,
//
//	func(p1 T1, ..., pN TN, s *Scope) (V, error) {
//	  next, stop := iter.Pull(ctor(p1, ..., pN))
//	  v, ok := next()
//	  if !ok { stop(); return v, ErrEmptySequence }
//	  s.Defer(stop)
//	  return v, nil
//	}
//
// iter.Seq2[V, error] sequences fail resolution with the first error they
// yield. Constructors of any other shape are returned unchanged.
func asDependency(ctor interface{}, name string) (interface{}, error) {
	fv := reflect.ValueOf(ctor)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("must provide constructor function, got %v (type %T)", ctor, ctor)
	}
	ft := fv.Type()
	if ft.NumOut() != 1 {
		return ctor, nil
	}
	seq, ok := seqOf(ft.Out(0))
	if !ok {
		return ctor, nil
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%v: variadic sequence constructors are not supported", name)
	}

	ins := make([]reflect.Type, 0, ft.NumIn()+1)
	for i := 0; i < ft.NumIn(); i++ {
		ins = append(ins, ft.In(i))
	}
	ins = append(ins, _typeOfScope)
	outs := []reflect.Type{seq.Elem, _typeOfError}

	wrapped := reflect.MakeFunc(reflect.FuncOf(ins, outs, false), func(args []reflect.Value) []reflect.Value {
		s := args[len(args)-1].Interface().(*Scope)
		v, err := pullFirst(s, name, fv.Call(args[:len(args)-1])[0], seq)
		if err != nil {
			return []reflect.Value{reflect.Zero(seq.Elem), reflect.ValueOf(&err).Elem()}
		}
		return []reflect.Value{v, _nilError}
	})
	return wrapped.Interface(), nil
}

// pullFirst starts seqV, takes its first element and hands the rest of its
// life to the scope's teardown.
func pullFirst(s *Scope, name string, seqV reflect.Value, shape seqShape) (reflect.Value, error) {
	if seqV.IsNil() {
		return reflect.Value{}, fmt.Errorf("%v returned a nil sequence: %w", name, ErrEmptySequence)
	}

	var (
		v    reflect.Value
		stop func()
	)
	if shape.WithErr {
		next, stop2 := iter.Pull2(pairs(seqV))
		val, errV, ok := next()
		if !ok {
			stop2()
			return reflect.Value{}, fmt.Errorf("%v: %w", name, ErrEmptySequence)
		}
		if err, _ := errV.Interface().(error); err != nil {
			stop2()
			return reflect.Value{}, err
		}
		v, stop = val, stop2
	} else {
		next, stop1 := iter.Pull(values(seqV))
		val, ok := next()
		if !ok {
			stop1()
			return reflect.Value{}, fmt.Errorf("%v: %w", name, ErrEmptySequence)
		}
		v, stop = val, stop1
	}

	err := s.teardown.Push(teardown.Hook{
		Name: name,
		Func: func() error {
			stop()
			return nil
		},
	})
	if err != nil {
		stop()
		return reflect.Value{}, fmt.Errorf("%v resolved after its scope closed: %w", name, err)
	}
	return v, nil
}

// values adapts a reflected iter.Seq[V] to an iter.Seq of reflect.Values.
func values(seq reflect.Value) iter.Seq[reflect.Value] {
	yieldType := seq.Type().In(0)
	return func(yield func(reflect.Value) bool) {
		fn := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.ValueOf(yield(args[0]))}
		})
		seq.Call([]reflect.Value{fn})
	}
}

// pairs adapts a reflected iter.Seq2[V, error] to an iter.Seq2 of
// reflect.Values.
func pairs(seq reflect.Value) iter.Seq2[reflect.Value, reflect.Value] {
	yieldType := seq.Type().In(0)
	return func(yield func(reflect.Value, reflect.Value) bool) {
		fn := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.ValueOf(yield(args[0], args[1]))}
		})
		seq.Call([]reflect.Value{fn})
	}
}
