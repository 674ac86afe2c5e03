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
	"reflect"
)

// Kind is the calling convention of an adapted method. It is fixed when the
// method is adapted.
type Kind int

const (
	// KindFunc methods return a value, optionally with an error.
	//
	//	func (f *Foo) Scale(mul float64) float64
	KindFunc Kind = iota

	// KindContext methods take a context.Context right after the receiver
	// and may block on it. Inside a scope the context is the scope's own.
	//
	//	func (f *Foo) Fetch(ctx context.Context, id string) (*Item, error)
	KindContext

	// KindSeq methods return an iter.Seq[T] or iter.Seq2[T, error]. As a
	// dependency, the first element is the value and the sequence is stopped
	// when the scope closes.
	//
	//	func (f *Foo) Open(path string) iter.Seq[*os.File]
	KindSeq

	// KindContextSeq methods take a context.Context and return a sequence.
	KindContextSeq
)

func (k Kind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindContext:
		return "context"
	case KindSeq:
		return "seq"
	case KindContextSeq:
		return "context-seq"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TakesContext reports whether methods of this kind receive a context.
func (k Kind) TakesContext() bool { return k == KindContext || k == KindContextSeq }

// IsSeq reports whether methods of this kind produce a sequence.
func (k Kind) IsSeq() bool { return k == KindSeq || k == KindContextSeq }

var (
	_typeOfError   = reflect.TypeOf((*error)(nil)).Elem()
	_typeOfContext = reflect.TypeOf((*context.Context)(nil)).Elem()
	_typeOfBool    = reflect.TypeOf(true)
	_nilError      = reflect.Zero(_typeOfError)
)

// seqShape describes a type shaped like iter.Seq[Elem] or
// iter.Seq2[Elem, error].
type seqShape struct {
	Elem    reflect.Type
	WithErr bool
}

// seqOf reports whether t is shaped like func(yield func(V) bool) or
// func(yield func(V, error) bool).
func seqOf(t reflect.Type) (seqShape, bool) {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return seqShape{}, false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumOut() != 1 || yield.Out(0) != _typeOfBool {
		return seqShape{}, false
	}
	switch {
	case yield.NumIn() == 1:
		return seqShape{Elem: yield.In(0)}, true
	case yield.NumIn() == 2 && yield.In(1) == _typeOfError:
		return seqShape{Elem: yield.In(0), WithErr: true}, true
	}
	return seqShape{}, false
}

// resultShape is what a method or constructor produces.
type resultShape struct {
	// Value is the type made available to the graph.
	Value reflect.Type

	// HasErr is set for (T, error) results.
	HasErr bool

	// Seq is set when the single result is a sequence of Value.
	Seq *seqShape
}

// resultShapeOf accepts T, (T, error), iter.Seq[T] and iter.Seq2[T, error].
func resultShapeOf(ft reflect.Type) (resultShape, string) {
	switch ft.NumOut() {
	case 1:
		out := ft.Out(0)
		if out == _typeOfError {
			return resultShape{}, "must produce a value, not just an error"
		}
		if seq, ok := seqOf(out); ok {
			return resultShape{Value: seq.Elem, Seq: &seq}, ""
		}
		return resultShape{Value: out}, ""
	case 2:
		out := ft.Out(0)
		if ft.Out(1) != _typeOfError {
			return resultShape{}, fmt.Sprintf("second result must be an error, got %v", ft.Out(1))
		}
		if out == _typeOfError {
			return resultShape{}, "must produce a value, not just an error"
		}
		if _, ok := seqOf(out); ok {
			return resultShape{}, "a sequence result may not be paired with an error; use iter.Seq2[T, error]"
		}
		return resultShape{Value: out, HasErr: true}, ""
	case 0:
		return resultShape{}, "must produce a value"
	default:
		return resultShape{}, fmt.Sprintf("must produce exactly one value, got %d results", ft.NumOut())
	}
}

// kindOf derives the Kind of a method whose first parameter is the receiver.
func kindOf(ft reflect.Type, shape resultShape) Kind {
	ctx := ft.NumIn() > 1 && ft.In(1) == _typeOfContext
	switch {
	case ctx && shape.Seq != nil:
		return KindContextSeq
	case ctx:
		return KindContext
	case shape.Seq != nil:
		return KindSeq
	default:
		return KindFunc
	}
}
