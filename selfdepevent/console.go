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

import (
	"fmt"
	"io"

	"github.com/selfdep/selfdep/internal/depreflect"
)

// ConsoleLogger is a selfdep event logger that attempts to write
// human-readable messages to the console.
//
// Use this during development.
type ConsoleLogger struct {
	W io.Writer
}

var _ Logger = (*ConsoleLogger)(nil)

func (l *ConsoleLogger) logf(msg string, args ...interface{}) {
	fmt.Fprintf(l.W, "[selfdep] "+msg+"\n", args...)
}

// LogEvent logs the given event to the provided writer.
func (l *ConsoleLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Adapted:
		l.logf("ADAPT\t\t%v as %q (%s, self: %s)", depreflect.FuncName(e.Method), e.Name, e.Kind, e.SelfKey)
	case *Provided:
		if e.Err != nil {
			l.logf("Error after options were applied: %v", e.Err)
			return
		}
		for _, rtype := range e.OutputTypeNames {
			if len(e.Name) > 0 {
				l.logf("PROVIDE\t%v[name=%q] <= %v", rtype, e.Name, depreflect.FuncName(e.Constructor))
			} else {
				l.logf("PROVIDE\t%v <= %v", rtype, depreflect.FuncName(e.Constructor))
			}
		}
	case *Supplied:
		if e.Err != nil {
			l.logf("Error after options were applied: %v", e.Err)
			return
		}
		l.logf("SUPPLY\t%v", e.TypeName)
	case *ScopeOpened:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to open scope: %v", e.Err)
			return
		}
		l.logf("OPEN")
	case *Invoking:
		l.logf("INVOKE\t\t%s", depreflect.FuncName(e.Function))
	case *Invoked:
		if e.Err != nil {
			l.logf("ERROR\t\tInvoke %s failed: %v", depreflect.FuncName(e.Function), e.Err)
		}
	case *TeardownExecuting:
		l.logf("TEARDOWN\t%s executing (caller: %s)", e.FunctionName, e.CallerName)
	case *TeardownExecuted:
		if e.Err != nil {
			l.logf("TEARDOWN\t%s called by %s failed in %s: %v", e.FunctionName, e.CallerName, e.Runtime, e.Err)
		} else {
			l.logf("TEARDOWN\t%s called by %s ran successfully in %s", e.FunctionName, e.CallerName, e.Runtime)
		}
	case *ScopeClosed:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to close scope cleanly: %v", e.Err)
			return
		}
		l.logf("CLOSED")
	}
}
