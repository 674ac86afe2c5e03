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

package selfdep_test

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfdep/selfdep"
	"github.com/selfdep/selfdep/selfdeptest"
)

// supplyOperands makes 6 available as the calc base and 3 as the operand.
func supplyOperands() selfdep.Option {
	return selfdep.Supply(selfdep.Annotated{Name: "base", Target: 6}, 3)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		desc   string
		method interface{}
		want   int
	}{
		{"func", (*calc).Add, 9},
		{"func with error", (*calc).Div, 2},
		{"value receiver", calc.Sub, 3},
		{"context", (*calc).AddContext, 9},
		{"sequence", (*calc).Range, 9},
		{"sequence with context", (*calc).RangeContext, 9},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			a := selfdep.Must(tt.method)
			s := selfdeptest.New(t, supplyOperands(), selfdep.Provide(a)).RequireOpen()
			defer s.RequireClose()

			assert.Equal(t, tt.want, selfdeptest.RequireResolve[int](s, a))
		})
	}

	t.Run("explicit factory", func(t *testing.T) {
		newCalc := func(x int) *calc { return &calc{Base: x * 10} }
		a := selfdep.Must((*calc).Add, selfdep.Factory(newCalc))
		s := selfdeptest.New(t, selfdep.Supply(3), selfdep.Provide(a)).RequireOpen()
		defer s.RequireClose()

		assert.Equal(t, 33, selfdeptest.RequireResolve[int](s, a))
	})

	t.Run("promoted method", func(t *testing.T) {
		a := selfdep.Must((*scientific).Add, selfdep.Factory(func() *scientific {
			return &scientific{calc: &calc{Base: 4}}
		}))
		s := selfdeptest.New(t, selfdep.Supply(3), selfdep.Provide(a)).RequireOpen()
		defer s.RequireClose()

		assert.Equal(t, 7, selfdeptest.RequireResolve[int](s, a))
	})

	t.Run("non-struct receiver with factory", func(t *testing.T) {
		a := selfdep.Must(celsius.Kelvin, selfdep.Factory(func() celsius { return 20 }))
		s := selfdeptest.New(t, selfdep.Provide(a)).RequireOpen()
		defer s.RequireClose()

		assert.InDelta(t, 293.15, selfdeptest.RequireResolve[float64](s, a), 1e-9)
	})

	t.Run("parameter tags", func(t *testing.T) {
		a := selfdep.Must((*calc).Add, selfdep.ParamTags(`name:"x"`), selfdep.Name("tagged"))
		s := selfdeptest.New(t,
			supplyOperands(),
			selfdep.Supply(selfdep.Annotated{Name: "x", Target: 100}),
			selfdep.Provide(a),
		).RequireOpen()
		defer s.RequireClose()

		assert.Equal(t, 106, selfdeptest.RequireResolve[int](s, a))
	})

	t.Run("optional parameter", func(t *testing.T) {
		a := selfdep.Must((*calc).Add, selfdep.ParamTags(`name:"missing" optional:"true"`))
		s := selfdeptest.New(t, supplyOperands(), selfdep.Provide(a)).RequireOpen()
		defer s.RequireClose()

		assert.Equal(t, 6, selfdeptest.RequireResolve[int](s, a))
	})

	t.Run("value group", func(t *testing.T) {
		a := selfdep.Must((*calc).Sum, selfdep.ParamTags(`group:"nums"`))
		s := selfdeptest.New(t,
			supplyOperands(),
			selfdep.Provide(
				selfdep.Annotated{Group: "nums", Target: func() int { return 1 }},
				selfdep.Annotated{Group: "nums", Target: func() int { return 2 }},
			),
			selfdep.Provide(a),
		).RequireOpen()
		defer s.RequireClose()

		assert.Equal(t, 9, selfdeptest.RequireResolve[int](s, a))
	})

	t.Run("by name", func(t *testing.T) {
		a := selfdep.Must((*calc).Add)
		s := selfdeptest.New(t, supplyOperands(), selfdep.Provide(a)).RequireOpen()
		defer s.RequireClose()

		var got int
		s.RequireInvoke(func(p struct {
			selfdep.In

			Sum int `name:"calc.Add"`
		}) {
			got = p.Sum
		})
		assert.Equal(t, 9, got)
	})

	t.Run("used by a constructor", func(t *testing.T) {
		type report struct{ Line string }
		type params struct {
			selfdep.In

			Sum int `name:"calc.Add"`
		}

		a := selfdep.Must((*calc).Add)
		s := selfdeptest.New(t,
			supplyOperands(),
			selfdep.Provide(a, func(p params) *report {
				return &report{Line: "sum is " + strconv.Itoa(p.Sum)}
			}),
		).RequireOpen()
		defer s.RequireClose()

		s.RequireInvoke(func(r *report) {
			assert.Equal(t, "sum is 9", r.Line)
		})
	})
}

func TestResolveErrors(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("method error", func(t *testing.T) {
		a := selfdep.Must((*calc).Div)
		s := selfdeptest.New(t,
			selfdep.Supply(selfdep.Annotated{Name: "base", Target: 6}, 0),
			selfdep.Provide(a),
		).RequireOpen()
		defer s.RequireClose()

		_, err := selfdep.Resolve[int](s.Scope, a)
		assert.ErrorIs(t, err, errDivByZero)
	})

	t.Run("factory error", func(t *testing.T) {
		methodCalled := false
		a := selfdep.Must(func(c *calc) int {
			methodCalled = true
			return c.Base
		}, selfdep.Factory(func() (*calc, error) { return nil, errBoom }), selfdep.Name("guarded"))
		s := selfdeptest.New(t, selfdep.Provide(a)).RequireOpen()
		defer s.RequireClose()

		_, err := selfdep.Resolve[int](s.Scope, a)
		assert.ErrorIs(t, err, errBoom)
		assert.False(t, methodCalled, "method must not run without its receiver")
	})

	t.Run("missing dependency", func(t *testing.T) {
		a := selfdep.Must((*calc).Add)
		s := selfdeptest.New(t, selfdep.Provide(a)).RequireOpen()
		defer s.RequireClose()

		_, err := selfdep.Resolve[int](s.Scope, a)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("wrong type", func(t *testing.T) {
		a := selfdep.Must((*calc).Add)
		s := selfdeptest.New(t, supplyOperands(), selfdep.Provide(a)).RequireOpen()
		defer s.RequireClose()

		_, err := selfdep.Resolve[string](s.Scope, a)
		require.Error(t, err)
		assert.Equal(t, "cannot resolve selfdep.New(calc.Add) as string: it provides int", err.Error())
	})

	t.Run("not provided", func(t *testing.T) {
		s := selfdeptest.New(t, supplyOperands()).RequireOpen()
		defer s.RequireClose()

		_, err := selfdep.Resolve[int](s.Scope, selfdep.Must((*calc).Add))
		require.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		a := selfdep.Must((*calc).AddContext)
		s := selfdeptest.New(t, supplyOperands(), selfdep.Provide(a)).RequireOpenContext(ctx)
		defer s.RequireClose()

		_, err := selfdep.Resolve[int](s.Scope, a)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSharedFactory(t *testing.T) {
	calls := 0
	newCalc := func() *calc {
		calls++
		return &calc{Base: 10}
	}
	factory := selfdep.Factory(newCalc)
	add := selfdep.Must((*calc).Add, factory)
	div := selfdep.Must((*calc).Div, factory)
	r := selfdeptest.New(t, selfdep.Supply(5), selfdep.Provide(add, div))

	s := r.RequireOpen()
	assert.Equal(t, 15, selfdeptest.RequireResolve[int](s, add))
	assert.Equal(t, 2, selfdeptest.RequireResolve[int](s, div))
	assert.Equal(t, 15, selfdeptest.RequireResolve[int](s, add), "values are cached per scope")
	s.RequireClose()
	assert.Equal(t, 1, calls, "one receiver per scope")

	s = r.RequireOpen()
	assert.Equal(t, 15, selfdeptest.RequireResolve[int](s, add))
	s.RequireClose()
	assert.Equal(t, 2, calls, "every scope builds its own receiver")
}

func TestIdempotentResolve(t *testing.T) {
	calls := 0
	newCalc := func() *calc {
		calls++
		return &calc{Base: 10}
	}
	factory := selfdep.Factory(newCalc)
	first := selfdep.Must((*calc).Add, factory, selfdep.Name("first"))
	second := selfdep.Must((*calc).Add, factory, selfdep.Name("second"))

	s := selfdeptest.New(t, selfdep.Supply(5), selfdep.Provide(first, second)).RequireOpen()
	defer s.RequireClose()

	assert.Equal(t,
		selfdeptest.RequireResolve[int](s, first),
		selfdeptest.RequireResolve[int](s, second))
	assert.Equal(t, 1, calls)
}

func TestDistinctFactories(t *testing.T) {
	t.Run("closures from one literal", func(t *testing.T) {
		fixedCalc := func(base int) func() *calc {
			return func() *calc { return &calc{Base: base} }
		}
		two := selfdep.Must((*calc).Add, selfdep.Factory(fixedCalc(2)), selfdep.Name("two"))
		hundred := selfdep.Must((*calc).Add, selfdep.Factory(fixedCalc(100)), selfdep.Name("hundred"))

		s := selfdeptest.New(t, selfdep.Supply(3), selfdep.Provide(two, hundred)).RequireOpen()
		defer s.RequireClose()

		assert.Equal(t, 5, selfdeptest.RequireResolve[int](s, two))
		assert.Equal(t, 103, selfdeptest.RequireResolve[int](s, hundred))
	})

	t.Run("receivers with the same name", func(t *testing.T) {
		var first, second *selfdep.Adapted
		{
			type user struct{ ID int }
			first = selfdep.Must(func(u *user) int { return u.ID }, selfdep.Name("first"))
		}
		{
			type user struct{ ID int }
			second = selfdep.Must(func(u *user) int { return -u.ID }, selfdep.Name("second"))
		}
		require.NotEqual(t, first.SelfKey(), second.SelfKey())

		s := selfdeptest.New(t, selfdep.Supply(7), selfdep.Provide(first, second)).RequireOpen()
		defer s.RequireClose()

		assert.Equal(t, 7, selfdeptest.RequireResolve[int](s, first))
		assert.Equal(t, -7, selfdeptest.RequireResolve[int](s, second))
	})
}

// Buffer shares its short method names with bytes.Buffer.
type Buffer struct{}

func (*Buffer) Len() int { return 1 }

func TestDefaultNames(t *testing.T) {
	ours := selfdep.Must((*Buffer).Len)
	theirs := selfdep.Must((*bytes.Buffer).Len)
	require.Equal(t, "Buffer.Len", ours.Name())
	require.Equal(t, ours.Name(), theirs.Name())

	r := selfdep.NewRegistry(selfdep.Provide(ours, theirs))
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "already provided")

	theirs = selfdep.Must((*bytes.Buffer).Len, selfdep.Name("bytes.Buffer.Len"))
	s := selfdeptest.New(t, selfdep.Provide(ours, theirs)).RequireOpen()
	defer s.RequireClose()

	assert.Equal(t, 1, selfdeptest.RequireResolve[int](s, ours))
	assert.Equal(t, 0, selfdeptest.RequireResolve[int](s, theirs))
}

func TestRegistryErrors(t *testing.T) {
	tests := []struct {
		desc string
		opts []selfdep.Option
		msg  string
	}{
		{
			desc: "option passed to Provide",
			opts: []selfdep.Option{selfdep.Provide(selfdep.Supply(1))},
			msg:  "selfdep.Option should be passed to selfdep.NewRegistry directly",
		},
		{
			desc: "annotated returned by a constructor",
			opts: []selfdep.Option{selfdep.Provide(func() selfdep.Annotated {
				return selfdep.Annotated{Target: func() int { return 0 }}
			})},
			msg: "selfdep.Annotated should be passed to selfdep.Provide directly",
		},
		{
			desc: "annotated with name and group",
			opts: []selfdep.Option{selfdep.Provide(selfdep.Annotated{
				Name:   "a",
				Group:  "b",
				Target: func() int { return 0 },
			})},
			msg: "selfdep.Annotated may specify only one of Name or Group",
		},
		{
			desc: "not a function",
			opts: []selfdep.Option{selfdep.Provide(42)},
			msg:  "must provide constructor function",
		},
		{
			desc: "same name twice",
			opts: []selfdep.Option{selfdep.Provide(selfdep.Must((*calc).Add), selfdep.Must((*calc).Add))},
			msg:  "already provided",
		},
		{
			desc: "type supplied twice",
			opts: []selfdep.Option{selfdep.Supply(1, 2)},
			msg:  "already provided",
		},
		{
			desc: "variadic sequence constructor",
			opts: []selfdep.Option{selfdep.Provide(func(...int) func(func(int) bool) { return nil })},
			msg:  "variadic sequence constructors are not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			r := selfdep.NewRegistry(tt.opts...)
			require.Error(t, r.Err())
			assert.Contains(t, r.Err().Error(), tt.msg)

			_, err := r.Open(context.Background())
			assert.Equal(t, r.Err(), err, "Open must report the registry error")
		})
	}

	t.Run("bad factory", func(t *testing.T) {
		r := selfdep.NewRegistry(selfdep.Provide(
			selfdep.Must((*calc).Add, selfdep.Factory(func() calc { return calc{} })),
		))

		var cerr *selfdep.ConfigurationError
		require.ErrorAs(t, r.Err(), &cerr)
		assert.Contains(t, cerr.Reason, "method receiver is *selfdep_test.calc")
	})

	t.Run("non-struct receiver", func(t *testing.T) {
		r := selfdep.NewRegistry(selfdep.Provide(selfdep.Must(celsius.Kelvin)))

		var cerr *selfdep.ConfigurationError
		require.ErrorAs(t, r.Err(), &cerr)
		assert.Contains(t, cerr.Reason, "receiver is not a struct")
	})
}

func TestOptionStrings(t *testing.T) {
	tests := []struct {
		desc string
		give selfdep.Option
		want string
	}{
		{
			desc: "Provide",
			give: selfdep.Provide(newFixedCalc, selfdep.Must((*calc).Add, selfdep.Name("sum"))),
			want: "selfdep.Provide(github.com/selfdep/selfdep_test.newFixedCalc(), selfdep.New(sum))",
		},
		{
			desc: "Provide annotated",
			give: selfdep.Provide(selfdep.Annotated{Name: "fixed", Target: newFixedCalc}),
			want: `selfdep.Provide(selfdep.Annotated{Name: "fixed", Target: github.com/selfdep/selfdep_test.newFixedCalc()})`,
		},
		{
			desc: "Supply",
			give: selfdep.Supply(1, "a", &calc{}),
			want: "selfdep.Supply(int, string, *selfdep_test.calc)",
		},
		{
			desc: "WithLogger",
			give: selfdep.WithLogger(&selfdeptest.Spy{}),
			want: "selfdep.WithLogger(*selfdeptest.Spy)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.give.String())
		})
	}
}
