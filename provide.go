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
	"strings"

	"go.uber.org/dig"

	"github.com/selfdep/selfdep/internal/depreflect"
)

// Provide registers any number of constructor functions, teaching the
// registry how to build the types they return. Constructors run lazily, at
// most once per Scope, and only when something in that scope needs them.
//
// Besides plain functions, Provide accepts Annotated constructors and
// methods adapted with New. A constructor returning an iter.Seq[T] or
// iter.Seq2[T, error] provides T: its first element. The sequence is
// stopped when the scope closes, which runs whatever cleanup follows its
// first yield.
//
//	func OpenTx(db *sql.DB) iter.Seq2[*sql.Tx, error] {
//	  return func(yield func(*sql.Tx, error) bool) {
//	    tx, err := db.Begin()
//	    if err != nil {
//	      yield(nil, err)
//	      return
//	    }
//	    defer tx.Rollback()
//	    yield(tx, nil)
//	  }
//	}
func Provide(targets ...interface{}) Option {
	return provideOption{
		Targets: targets,
		Caller:  depreflect.Caller(),
	}
}

type provideOption struct {
	Targets []interface{}
	Caller  string
}

func (o provideOption) apply(r *Registry) {
	for _, target := range o.Targets {
		r.provides = append(r.provides, provide{
			Target: target,
			Caller: o.Caller,
		})
	}
}

func (o provideOption) String() string {
	items := make([]string, len(o.Targets))
	for i, t := range o.Targets {
		items[i] = describeTarget(t)
	}
	return fmt.Sprintf("selfdep.Provide(%s)", strings.Join(items, ", "))
}

func describeTarget(target interface{}) string {
	switch t := target.(type) {
	case *Adapted:
		return t.String()
	case Annotated:
		return t.String()
	default:
		return depreflect.FuncName(t)
	}
}

// provide is a single target passed to Provide or Supply.
type provide struct {
	// Constructor, value supplier, Annotated or *Adapted.
	Target interface{}

	// Function that called Provide or Supply.
	Caller string

	// Set if Target was built by Supply.
	IsSupply bool
}

// node is a constructor ready to be handed to a scope's container.
type node struct {
	Ctor   interface{}
	Opts   []dig.ProvideOption
	Desc   string
	Caller string

	// Source is what events report as the constructor.
	Source interface{}
	Name   string

	IsSupply bool
	Adapted  *Adapted
}

func (n node) String() string { return n.Desc }

// compile turns a target into the nodes a scope provides. An adapted method
// yields a node for its self factory, unless a previous method already
// registered the same factory, and a node for itself.
func compile(p provide, seen map[string]struct{}) ([]node, error) {
	switch target := p.Target.(type) {
	case Option:
		return nil, fmt.Errorf("selfdep.Option should be passed to selfdep.NewRegistry directly, "+
			"not to selfdep.Provide: selfdep.Provide received %v from %v", target, p.Caller)

	case *Adapted:
		return compileAdapted(target, p, seen)

	case Annotated:
		var opts []dig.ProvideOption
		switch {
		case len(target.Group) > 0 && len(target.Name) > 0:
			return nil, fmt.Errorf("selfdep.Annotated may specify only one of Name or Group: received %v from %v",
				target, p.Caller)
		case len(target.Name) > 0:
			opts = append(opts, dig.Name(target.Name))
		case len(target.Group) > 0:
			opts = append(opts, dig.Group(target.Group))
		}
		ctor, err := asDependency(target.Target, target.String())
		if err != nil {
			return nil, fmt.Errorf("selfdep.Provide(%v) from %v failed: %w", target, p.Caller, err)
		}
		return []node{{
			Ctor:     ctor,
			Opts:     opts,
			Desc:     target.String(),
			Caller:   p.Caller,
			Source:   target.Target,
			Name:     target.Name,
			IsSupply: p.IsSupply,
		}}, nil

	default:
		if target != nil && reflect.TypeOf(target).Kind() == reflect.Func {
			ft := reflect.TypeOf(target)
			for i := 0; i < ft.NumOut(); i++ {
				if ft.Out(i) == reflect.TypeOf(Annotated{}) {
					return nil, fmt.Errorf("selfdep.Annotated should be passed to selfdep.Provide directly, "+
						"it should not be returned by the constructor: "+
						"selfdep.Provide received %v from %v", depreflect.FuncName(target), p.Caller)
				}
			}
		}
		desc := depreflect.FuncName(target)
		ctor, err := asDependency(target, desc)
		if err != nil {
			return nil, fmt.Errorf("selfdep.Provide(%v) from %v failed: %w", desc, p.Caller, err)
		}
		return []node{{
			Ctor:     ctor,
			Desc:     desc,
			Caller:   p.Caller,
			Source:   target,
			IsSupply: p.IsSupply,
		}}, nil
	}
}

func compileAdapted(a *Adapted, p provide, seen map[string]struct{}) ([]node, error) {
	var nodes []node
	if _, ok := seen[a.SelfKey()]; !ok {
		factory, err := a.Factory()
		if err != nil {
			return nil, fmt.Errorf("selfdep.Provide(%v) from %v failed: %w", a, p.Caller, err)
		}
		ctor, err := asDependency(factory, a.SelfKey())
		if err != nil {
			return nil, fmt.Errorf("selfdep.Provide(%v) from %v failed: %w", a, p.Caller, err)
		}
		seen[a.SelfKey()] = struct{}{}
		nodes = append(nodes, node{
			Ctor:   ctor,
			Opts:   []dig.ProvideOption{dig.Name(a.SelfKey())},
			Desc:   a.SelfKey(),
			Caller: p.Caller,
			Source: factory,
			Name:   a.SelfKey(),
		})
	}

	ctor, err := asDependency(a.Constructor(), a.String())
	if err != nil {
		return nil, fmt.Errorf("selfdep.Provide(%v) from %v failed: %w", a, p.Caller, err)
	}
	return append(nodes, node{
		Ctor:    ctor,
		Opts:    []dig.ProvideOption{dig.Name(a.Name())},
		Desc:    a.String(),
		Caller:  p.Caller,
		Source:  a.Method(),
		Name:    a.Name(),
		Adapted: a,
	}), nil
}
