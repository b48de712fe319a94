// Copyright 2025 The Pagemux Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pagemux

import (
	"fmt"
	"io"
	"maps"
	"reflect"
	"strings"
)

// The closed capability set for handler parameters. Anything outside it is
// a ConfigError at invocation time.
var (
	writerType   = reflect.TypeOf((*io.Writer)(nil)).Elem()
	paramMapType = reflect.TypeOf(ParamMap(nil))
	textBufType  = reflect.TypeOf((*strings.Builder)(nil))
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// invoke resolves the member's parameter list against the capability set,
// calls it, and coerces the returned values.
//
// Resolution order per parameter: the page receiver (first parameter
// only), the output writer, the parameter sink, the response text buffer,
// then the raw request handle by assignability. Signature problems are
// reported only when this specific member is invoked, so other handlers in
// the same registry stay usable.
func (d *Dispatcher) invoke(c *Ctx, page Page, member Member, raw string) error {
	fv := reflect.ValueOf(member)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return &ConfigError{Page: KeyOf(page), Err: fmt.Errorf("%w: pattern %q", ErrNotAFunction, raw)}
	}

	ft := fv.Type()
	pageVal := reflect.ValueOf(page)
	args := make([]reflect.Value, ft.NumIn())
	for i := range ft.NumIn() {
		pt := ft.In(i)
		switch {
		case i == 0 && pageVal.Type().AssignableTo(pt):
			args[i] = pageVal
		case pt == writerType:
			w := c.Writer
			if w == nil {
				w = io.Discard
			}
			args[i] = reflect.ValueOf(w)
		case pt == paramMapType:
			if c.Params == nil {
				c.Params = make(ParamMap)
			}
			args[i] = reflect.ValueOf(c.Params)
		case pt == textBufType:
			if c.Text == nil {
				c.Text = &strings.Builder{}
			}
			args[i] = reflect.ValueOf(c.Text)
		case c.Raw != nil && reflect.TypeOf(c.Raw).AssignableTo(pt):
			args[i] = reflect.ValueOf(c.Raw)
		default:
			return &ConfigError{
				Page: KeyOf(page),
				Err:  fmt.Errorf("%w: pattern %q parameter %d (%s)", ErrUnsupportedParam, raw, i, pt),
			}
		}
	}

	out, err := call(fv, args)
	if err != nil {
		return &DispatchError{Pattern: raw, Err: err}
	}
	return coerce(c, raw, out)
}

// call isolates the reflect.Call so handler panics become errors instead
// of tearing down the host goroutine.
func call(fv reflect.Value, args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return fv.Call(args), nil
}

// coerce applies the member's returned values to the response sinks:
// a non-nil error becomes a DispatchError, a StructuredResult shallow-
// merges into the structured sink (handler keys win on conflict), a
// TextResult appends to the text buffer, and anything else is silently
// ignored.
func coerce(c *Ctx, raw string, out []reflect.Value) error {
	for _, rv := range out {
		if rv.Type().Implements(errorType) {
			if rv.IsZero() {
				continue
			}
			if e, ok := rv.Interface().(error); ok && e != nil {
				return &DispatchError{Pattern: raw, Err: e}
			}
			continue
		}
		if !rv.CanInterface() {
			continue
		}
		res, ok := rv.Interface().(Result)
		if !ok || res == nil {
			continue
		}
		switch r := res.(type) {
		case StructuredResult:
			if len(r) == 0 {
				continue
			}
			if c.Out == nil {
				c.Out = make(map[string]any, len(r))
			}
			maps.Copy(c.Out, r)
		case TextResult:
			if c.Text == nil {
				c.Text = &strings.Builder{}
			}
			c.Text.WriteString(string(r))
		}
	}
	return nil
}
