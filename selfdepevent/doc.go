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

// Package selfdepevent defines a means of changing how selfdep logs internal
// events.
//
// # Changing the Logger
//
// By default, registries use the [NopLogger]: a registry may open one scope
// per request, and most services do not want a log line for every resolved
// dependency.
//
// Use the selfdep.WithLogger option to change this behavior.
// If you're using Zap inside your application, use the [ZapLogger].
//
//	selfdep.NewRegistry(
//		selfdep.Provide(NewFoo),
//		selfdep.WithLogger(&selfdepevent.ZapLogger{Logger: log}),
//	)
//
// During development the [ConsoleLogger] writes readable lines to a writer.
//
// # Implementing a Custom Logger
//
// To implement a custom logger, implement the [Logger] interface.
// [Event] is a union type over everything selfdep emits; use a type switch.
//
//	func (l *MyLogger) LogEvent(e selfdepevent.Event) {
//		switch e := e.(type) {
//		case *selfdepevent.TeardownExecuted:
//			// ...
//		}
//	}
package selfdepevent
