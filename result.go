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

// Result is the tagged return contract for handler members. A member may
// return a Result (alone or alongside an error), return only an error, or
// return nothing at all. Returned values that are not Results and not
// errors are silently ignored, a deliberate tolerance for unrelated
// return conventions.
//
// The two concrete variants are [StructuredResult] and [TextResult]; a nil
// Result is a no-op.
type Result interface {
	isResult()
}

// StructuredResult merges into the request's structured response sink via
// shallow key overwrite-union: keys from the handler's result take
// precedence on conflict. The merge is deliberately shallow, never
// recursive.
type StructuredResult map[string]any

func (StructuredResult) isResult() {}

// TextResult appends to the request's response text buffer.
type TextResult string

func (TextResult) isResult() {}

// Structured wraps a key-value map as a Result.
func Structured(m map[string]any) Result { return StructuredResult(m) }

// Text wraps plain text as a Result.
func Text(s string) Result { return TextResult(s) }
