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

package selfdepevent

import "time"

// Event defines an event emitted by selfdep.
type Event interface {
	event() // Only selfdep can implement this interface.
}

// Passing events by type to make Event hashable in the future.
func (*Adapted) event()           {}
func (*Provided) event()          {}
func (*Supplied) event()          {}
func (*ScopeOpened) event()       {}
func (*Invoking) event()          {}
func (*Invoked) event()           {}
func (*TeardownExecuting) event() {}
func (*TeardownExecuted) event()  {}
func (*ScopeClosed) event()       {}

// Adapted is emitted when a registry receives a method adapted with
// selfdep.New.
type Adapted struct {
	// Method is the original method expression.
	Method interface{}

	// Name is the name under which the method's value is provided.
	Name string

	// Kind is the shape of the method: func, context, seq or context-seq.
	Kind string

	// SelfKey is the name under which the receiver is provided.
	SelfKey string
}

// Provided is emitted when a constructor is added to a registry.
type Provided struct {
	// Constructor is the constructor that was provided.
	Constructor interface{}

	// OutputTypeNames is a list of names of types that are produced by
	// this constructor.
	OutputTypeNames []string

	// Name is the dig name of the produced values, if any.
	Name string

	// Err is non-nil if we failed to provide this constructor.
	Err error
}

// Supplied is emitted after a value is added with selfdep.Supply.
type Supplied struct {
	// TypeName is the name of the type of value that was added.
	TypeName string

	// Err is non-nil if we failed to supply the value.
	Err error
}

// ScopeOpened is emitted after a registry opens a request scope.
type ScopeOpened struct {
	// Err is non-nil if the scope could not be built.
	Err error
}

// Invoking is emitted before we invoke a function inside a scope.
type Invoking struct {
	// Function is the function that will be invoked.
	Function interface{}
}

// Invoked is emitted after we invoke a function inside a scope.
type Invoked struct {
	// Function is the function that was invoked.
	Function interface{}

	// Err is non-nil if the function failed to execute.
	Err error
}

// TeardownExecuting is emitted before a teardown func registered in a scope
// is executed.
type TeardownExecuting struct {
	// FunctionName is the name of the teardown func.
	FunctionName string

	// CallerName is the name of the function that registered it.
	CallerName string
}

// TeardownExecuted is emitted after a teardown func has been executed.
type TeardownExecuted struct {
	FunctionName string
	CallerName   string
	Runtime      time.Duration

	// Err is non-nil if the teardown func failed.
	Err error
}

// ScopeClosed is emitted after every teardown func of a scope ran.
type ScopeClosed struct {
	// Err is non-nil if one or more teardown funcs failed.
	Err error
}
