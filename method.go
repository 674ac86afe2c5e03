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
	"sync"
	"sync/atomic"

	"github.com/selfdep/selfdep/internal/depreflect"
)

// MethodOption configures how New adapts a method.
type MethodOption interface {
	apply(*methodOptions) error
}

type methodOptions struct {
	Factory   interface{}
	FactoryID string
	ParamTags []string
	Name      string
}

var _factorySeq atomic.Uint64

type factoryOption struct {
	ctor interface{}
	id   string
}

func (o *factoryOption) apply(opts *methodOptions) error {
	if o.ctor == nil {
		return errors.New("selfdep.Factory received a nil constructor")
	}
	if opts.Factory != nil {
		return errors.New("cannot apply more than one Factory")
	}
	opts.Factory = o.ctor
	opts.FactoryID = o.id
	return nil
}

// Factory sets the constructor that produces the receiver of the adapted
// method. The constructor is itself a dependency: its parameters are
// resolved from the graph, and it may return the receiver alone, with an
// error, or as the first element of an iter.Seq or iter.Seq2[T, error].
//
//	func NewFoo(base Base) (*Foo, error)
//
//	var scaled = selfdep.Must((*Foo).Scale, selfdep.Factory(NewFoo))
//
// Without a Factory, the receiver is built by injecting the exported fields
// of its struct type.
//
// Methods whose factory is the same top-level function share one receiver
// per scope. A closure, method value or generic instantiation is told apart
// only by the option holding it: reuse the value returned by Factory to
// share its receiver between methods.
//
//	newFoo := func() *Foo { return &Foo{Base: base} }
//	foo := selfdep.Factory(newFoo)
//	scaled := selfdep.Must((*Foo).Scale, foo)
//	shifted := selfdep.Must((*Foo).Shift, foo)
func Factory(ctor interface{}) MethodOption {
	o := &factoryOption{ctor: ctor}
	if ctor != nil {
		o.id = depreflect.FuncName(ctor)
		if !depreflect.NameIsUnique(ctor) {
			o.id += fmt.Sprintf("#%d", _factorySeq.Add(1))
		}
	}
	return o
}

type paramTagsOption struct{ tags []string }

func (o paramTagsOption) apply(opts *methodOptions) error {
	if len(opts.ParamTags) > 0 {
		return errors.New("cannot apply more than one line of ParamTags")
	}
	opts.ParamTags = o.tags
	return nil
}

// ParamTags annotates the parameters of the adapted method. Tags map to the
// method's parameters positionally, not counting the receiver.
//
//	func (f *Foo) Scale(mul *float64) float64
//
//	selfdep.New((*Foo).Scale, selfdep.ParamTags(`name:"mul" optional:"true"`))
func ParamTags(tags ...string) MethodOption {
	return paramTagsOption{tags}
}

type nameOption string

func (o nameOption) apply(opts *methodOptions) error {
	if len(o) == 0 {
		return errors.New("selfdep.Name received an empty name")
	}
	opts.Name = string(o)
	return nil
}

// Name sets the name under which the method's value is provided. It defaults
// to the method's short name, e.g. "Foo.Scale" for (*Foo).Scale.
//
// Short names carry no import path, so (*a.Foo).Scale and (*b.Foo).Scale both
// default to "Foo.Scale". Providing both fails NewRegistry with an "already
// provided" error; give one of them a Name.
func Name(name string) MethodOption {
	return nameOption(name)
}

// Adapted is a method made available as a dependency. It is built once by New
// and is safe for concurrent use.
//
// An Adapted has two entry points. Inside a Scope, Constructor resolves the
// receiver through the self factory and forwards the remaining resolved
// arguments to the method. Outside of any scope, Bind returns the method
// bound to an existing receiver; the factory is never consulted.
type Adapted struct {
	method  reflect.Value
	fnType  reflect.Type
	kind    Kind
	shape   resultShape
	sig     Signature
	name    string
	factory *factoryRef

	ctorOnce sync.Once
	ctor     interface{}
}

// New adapts method, a method expression such as (*Foo).Scale or any func
// whose first parameter plays the role of the receiver.
//
// New returns a *ConfigurationError if method has no parameters, is
// variadic, or does not produce exactly one value: T, (T, error),
// iter.Seq[T] or iter.Seq2[T, error].
func New(method interface{}, opts ...MethodOption) (*Adapted, error) {
	if method == nil {
		return nil, newConfigurationError(method, "method must be a function")
	}
	mv := reflect.ValueOf(method)
	if mv.Kind() != reflect.Func {
		return nil, newConfigurationError(method, "method must be a function, got %T", method)
	}
	if mv.IsNil() {
		return nil, newConfigurationError(method, "method must not be a nil function")
	}

	ft := mv.Type()
	if ft.NumIn() == 0 {
		return nil, newConfigurationError(method, "method has no receiver parameter to replace")
	}
	if ft.IsVariadic() {
		return nil, newConfigurationError(method, "variadic methods are not supported")
	}
	shape, reason := resultShapeOf(ft)
	if len(reason) > 0 {
		return nil, newConfigurationError(method, "method %v", reason)
	}

	var o methodOptions
	for _, opt := range opts {
		if err := opt.apply(&o); err != nil {
			return nil, newConfigurationError(method, "%v", err)
		}
	}
	if len(o.ParamTags) > ft.NumIn()-1 {
		return nil, newConfigurationError(method,
			"got %d parameter tags for %d parameters", len(o.ParamTags), ft.NumIn()-1)
	}

	factory := newFactoryRef(ft.In(0), o.Factory, o.FactoryID)
	sig := Signature{
		Self: Param{
			Index: 0,
			Type:  ft.In(0),
			Tag:   reflect.StructTag(fmt.Sprintf("name:%q", factory.key)),
		},
		Params: make([]Param, 0, ft.NumIn()-1),
	}
	for i := 1; i < ft.NumIn(); i++ {
		p := Param{Index: i, Type: ft.In(i)}
		if i-1 < len(o.ParamTags) {
			p.Tag = reflect.StructTag(o.ParamTags[i-1])
		}
		sig.Params = append(sig.Params, p)
	}

	name := o.Name
	if len(name) == 0 {
		name = depreflect.ShortName(method)
	}

	return &Adapted{
		method:  mv,
		fnType:  ft,
		kind:    kindOf(ft, shape),
		shape:   shape,
		sig:     sig,
		name:    name,
		factory: factory,
	}, nil
}

// Must is like New but panics if the method cannot be adapted. It simplifies
// safe initialization of package-level variables.
func Must(method interface{}, opts ...MethodOption) *Adapted {
	a, err := New(method, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Method returns the original method.
func (a *Adapted) Method() interface{} { return a.method.Interface() }

// Kind returns the calling convention of the method.
func (a *Adapted) Kind() Kind { return a.kind }

// Name returns the name under which the method's value is provided.
func (a *Adapted) Name() string { return a.name }

// ValueType returns the type of the value the method provides. For sequence
// methods this is the element type.
func (a *Adapted) ValueType() reflect.Type { return a.shape.Value }

// SelfKey returns the name under which the receiver is provided.
func (a *Adapted) SelfKey() string { return a.factory.key }

// Signature returns the parameter list presented to the graph.
func (a *Adapted) Signature() Signature {
	sig := a.sig
	sig.Params = append([]Param(nil), a.sig.Params...)
	return sig
}

// Factory returns the constructor of the method's receiver. The first call
// validates an explicit factory, or derives the struct constructor.
func (a *Adapted) Factory() (interface{}, error) {
	return a.factory.resolve()
}

// Constructor returns the function that dig calls to produce the method's
// value. It takes a single dig.In struct laid out as described by Signature
// and returns the method's own results.
//
// The returned function is built once and shared.
func (a *Adapted) Constructor() interface{} {
	a.ctorOnce.Do(func() {
		outs := make([]reflect.Type, a.fnType.NumOut())
		for i := range outs {
			outs[i] = a.fnType.Out(i)
		}
		ctorType := reflect.FuncOf([]reflect.Type{a.sig.inType()}, outs, false)
		a.ctor = reflect.MakeFunc(ctorType, func(args []reflect.Value) []reflect.Value {
			return a.method.Call(a.sig.args(args[0]))
		}).Interface()
	})
	return a.ctor
}

// Bind returns the method bound to recv: a function with the method's type
// minus the receiver, behaving exactly like a call through recv. Sequence
// methods return a fresh sequence on every call.
//
// Bind panics if recv is not assignable to the receiver type.
func (a *Adapted) Bind(recv interface{}) interface{} {
	rt := a.sig.Self.Type
	rv := reflect.ValueOf(recv)
	if !rv.IsValid() {
		rv = reflect.Zero(rt)
	}
	if !rv.Type().AssignableTo(rt) {
		panic(fmt.Sprintf("selfdep: cannot bind %T to %v: receiver must be %v", recv, a, rt))
	}

	outs := make([]reflect.Type, a.fnType.NumOut())
	for i := range outs {
		outs[i] = a.fnType.Out(i)
	}
	boundType := reflect.FuncOf(a.sig.Types(), outs, false)
	return reflect.MakeFunc(boundType, func(args []reflect.Value) []reflect.Value {
		callArgs := make([]reflect.Value, 0, len(args)+1)
		callArgs = append(callArgs, rv)
		callArgs = append(callArgs, args...)
		return a.method.Call(callArgs)
	}).Interface()
}

// BindAs is Bind with the result asserted to F, the method's type minus the
// receiver.
//
//	scale := selfdep.BindAs[func(float64) float64](scaled, foo)
func BindAs[F any](a *Adapted, recv interface{}) F {
	return a.Bind(recv).(F)
}

func (a *Adapted) String() string {
	return fmt.Sprintf("selfdep.New(%v)", a.name)
}
