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

// Package selfdep turns methods into request-scoped dependencies.
//
// A method expression such as (*Foo).Scale is a function whose first
// parameter is the receiver. New adapts it so that a dig container can
// resolve it: the receiver becomes a dependency on a self factory, and every
// other parameter is resolved from the graph exactly as declared.
//
//	type Foo struct{ Base float64 }
//
//	func (f *Foo) Scale(mul float64) float64 { return f.Base * mul }
//
//	var scaled = selfdep.Must((*Foo).Scale)
//
// The method body knows nothing about the container. Calling foo.Scale(2)
// directly is ordinary Go and never involves selfdep.
//
// # Self factories
//
// By default the receiver is built by its struct constructor: a zero Foo
// whose exported fields are injected from the graph, honoring dig struct
// tags. Pass selfdep.Factory to build it with any constructor instead.
// The factory is resolved like any other dependency, once per scope, and is
// shared by every adapted method that names it: the same top-level function,
// or the same option value returned by selfdep.Factory.
//
// # Method kinds
//
// The calling convention is fixed when the method is adapted; see Kind.
// Methods may return a value, a value and an error, or an iter.Seq[T] /
// iter.Seq2[T, error]. A method whose first parameter after the receiver is
// a context.Context receives the scope's context.
//
// Sequence-returning methods work like generator dependencies: the first
// element is the value, and the sequence is stopped when the scope closes,
// running whatever follows its yield.
//
// # Registries and scopes
//
// A Registry collects constructors, supplied values and adapted methods.
// Each call to Open builds a Scope for one request:
//
//	registry := selfdep.NewRegistry(
//		selfdep.Supply(2.0),
//		selfdep.Provide(scaled),
//	)
//
//	scope, err := registry.Open(ctx)
//	if err != nil {
//		return err
//	}
//	defer scope.Close()
//
//	v, err := selfdep.Resolve[float64](scope, scaled)
//
// Other constructors and invoked functions reach the value by name, as
// `name:"Foo.Scale"` on a field of a struct embedding selfdep.In.
package selfdep
