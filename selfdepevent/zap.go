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
	"go.uber.org/zap"

	"github.com/selfdep/selfdep/internal/depreflect"
)

// ZapLogger is a selfdep event logger that logs events to Zap.
type ZapLogger struct {
	Logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

// LogEvent logs the given event to the provided Zap logger.
func (l *ZapLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Adapted:
		l.Logger.Info("adapted",
			zap.String("method", depreflect.FuncName(e.Method)),
			zap.String("name", e.Name),
			zap.String("kind", e.Kind),
			zap.String("self", e.SelfKey),
		)
	case *Provided:
		if e.Err != nil {
			l.Logger.Error("error encountered while applying options",
				zap.String("constructor", depreflect.FuncName(e.Constructor)),
				zap.Error(e.Err))
			return
		}
		for _, rtype := range e.OutputTypeNames {
			fields := []zap.Field{
				zap.String("constructor", depreflect.FuncName(e.Constructor)),
				zap.String("type", rtype),
			}
			if len(e.Name) > 0 {
				fields = append(fields, zap.String("name", e.Name))
			}
			l.Logger.Info("provided", fields...)
		}
	case *Supplied:
		if e.Err != nil {
			l.Logger.Error("error encountered while applying options",
				zap.String("type", e.TypeName),
				zap.Error(e.Err))
			return
		}
		l.Logger.Info("supplied", zap.String("type", e.TypeName))
	case *ScopeOpened:
		if e.Err != nil {
			l.Logger.Error("scope open failed", zap.Error(e.Err))
			return
		}
		l.Logger.Debug("scope opened")
	case *Invoking:
		l.Logger.Debug("invoking",
			zap.String("function", depreflect.FuncName(e.Function)))
	case *Invoked:
		if e.Err != nil {
			l.Logger.Error("invoke failed",
				zap.Error(e.Err),
				zap.String("function", depreflect.FuncName(e.Function)))
		}
	case *TeardownExecuting:
		l.Logger.Debug("teardown executing",
			zap.String("callee", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *TeardownExecuted:
		if e.Err != nil {
			l.Logger.Error("teardown failed",
				zap.String("callee", e.FunctionName),
				zap.String("caller", e.CallerName),
				zap.Error(e.Err),
			)
			return
		}
		l.Logger.Debug("teardown executed",
			zap.String("callee", e.FunctionName),
			zap.String("caller", e.CallerName),
			zap.String("runtime", e.Runtime.String()),
		)
	case *ScopeClosed:
		if e.Err != nil {
			l.Logger.Error("scope close failed", zap.Error(e.Err))
			return
		}
		l.Logger.Debug("scope closed")
	}
}
