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

package teardown

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/selfdep/selfdep/selfdepevent"
)

type recorder struct{ events []selfdepevent.Event }

func (r *recorder) LogEvent(e selfdepevent.Event) { r.events = append(r.events, e) }

func TestStackRun(t *testing.T) {
	t.Run("ReverseOrder", func(t *testing.T) {
		s := New(nil)
		var order []int
		for i := 1; i <= 3; i++ {
			i := i
			require.NoError(t, s.Push(Hook{Func: func() error {
				order = append(order, i)
				return nil
			}}))
		}
		assert.Equal(t, 3, s.Len())

		require.NoError(t, s.Run())
		assert.Equal(t, []int{3, 2, 1}, order)
		assert.Zero(t, s.Len())
	})

	t.Run("ErrorsDoNotHalt", func(t *testing.T) {
		s := New(nil)
		err1 := errors.New("first")
		err2 := errors.New("second")
		ran := 0

		require.NoError(t, s.Push(Hook{Func: func() error { ran++; return err1 }}))
		require.NoError(t, s.Push(Hook{Func: func() error { ran++; return nil }}))
		require.NoError(t, s.Push(Hook{Func: func() error { ran++; return err2 }}))

		err := s.Run()
		assert.Equal(t, 3, ran)
		assert.Equal(t, []error{err2, err1}, multierr.Errors(err))
	})

	t.Run("PanicsDoNotHalt", func(t *testing.T) {
		rec := &recorder{}
		s := New(rec)
		released := false

		require.NoError(t, s.Push(Hook{Func: func() error { released = true; return nil }}))
		require.NoError(t, s.Push(Hook{Name: "cursor.Stop", Func: func() error { panic("great sadness") }}))

		err := s.Run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "teardown cursor.Stop panicked: great sadness")
		assert.True(t, released, "hooks below a panic must still run")
		assert.Zero(t, s.Len())

		require.Len(t, rec.events, 4)
		executed, ok := rec.events[1].(*selfdepevent.TeardownExecuted)
		require.True(t, ok, "expected TeardownExecuted, got %T", rec.events[1])
		assert.Equal(t, err, executed.Err)
	})

	t.Run("RunsOnce", func(t *testing.T) {
		s := New(nil)
		ran := 0
		require.NoError(t, s.Push(Hook{Func: func() error { ran++; return nil }}))

		require.NoError(t, s.Run())
		require.NoError(t, s.Run())
		assert.Equal(t, 1, ran)
	})

	t.Run("PushAfterRun", func(t *testing.T) {
		s := New(nil)
		require.NoError(t, s.Run())
		assert.ErrorIs(t, s.Push(Hook{Func: func() error { return nil }}), ErrDone)
	})
}

func TestStackEvents(t *testing.T) {
	rec := &recorder{}
	now := time.Unix(0, 0)
	s := New(rec, WithNow(func() time.Time { return now }))
	failure := errors.New("close failed")
	require.NoError(t, s.Push(Hook{Name: "conn.Close", Func: func() error {
		now = now.Add(time.Second)
		return failure
	}}))

	assert.ErrorIs(t, s.Run(), failure)
	require.Len(t, rec.events, 2)

	executing, ok := rec.events[0].(*selfdepevent.TeardownExecuting)
	require.True(t, ok, "expected TeardownExecuting, got %T", rec.events[0])
	assert.Equal(t, "conn.Close", executing.FunctionName)
	assert.Equal(t, "github.com/selfdep/selfdep/internal/teardown.TestStackEvents", executing.CallerName)

	executed, ok := rec.events[1].(*selfdepevent.TeardownExecuted)
	require.True(t, ok, "expected TeardownExecuted, got %T", rec.events[1])
	assert.Equal(t, failure, executed.Err)
	assert.Equal(t, time.Second, executed.Runtime)
}
