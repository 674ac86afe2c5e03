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
	"strings"

	"github.com/selfdep/selfdep/internal/depreflect"
)

// Annotated annotates a constructor provided to a Registry with additional
// options.
//
// For example,
//
//	func NewReadOnlyConnection(...) (*Connection, error)
//
//	selfdep.Provide(selfdep.Annotated{
//	  Name: "ro",
//	  Target: NewReadOnlyConnection,
//	})
//
// Is equivalent to,
//
//	type result struct {
//	  selfdep.Out
//
//	  Connection *Connection `name:"ro"`
//	}
//
//	selfdep.Provide(func(...) (result, error) {
//	  conn, err := NewReadOnlyConnection(...)
//	  return result{Connection: conn}, err
//	})
//
// Annotated cannot be used with constructors which produce selfdep.Out
// objects. Adapted methods carry their own name; use selfdep.Name instead.
//
// When used with selfdep.Supply, the target is a value rather than a
// constructor function.
type Annotated struct {
	// If specified, this will be used as the name for all non-error values
	// returned by the constructor.
	//
	// A name option may not be provided if a group option is provided.
	Name string

	// If specified, this will be used as the group name for all non-error
	// values returned by the constructor.
	//
	// A group option may not be provided if a name option is provided.
	Group string

	// Target is the constructor or value being annotated.
	Target interface{}
}

func (a Annotated) String() string {
	var fields []string
	if len(a.Name) > 0 {
		fields = append(fields, fmt.Sprintf("Name: %q", a.Name))
	}
	if len(a.Group) > 0 {
		fields = append(fields, fmt.Sprintf("Group: %q", a.Group))
	}
	if a.Target != nil {
		fields = append(fields, fmt.Sprintf("Target: %v", depreflect.FuncName(a.Target)))
	}
	return fmt.Sprintf("selfdep.Annotated{%v}", strings.Join(fields, ", "))
}
