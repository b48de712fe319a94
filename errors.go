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
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnsupportedParam indicates a handler member declares a parameter
	// type outside the supported capability set.
	ErrUnsupportedParam = errors.New("unsupported handler parameter type")

	// ErrNotAFunction indicates a declared member is not a function.
	ErrNotAFunction = errors.New("handler member is not a function")

	// ErrRerouteNotWildcard indicates a matched reroute pattern does not end
	// with the wildcard marker.
	ErrRerouteNotWildcard = errors.New("reroute pattern must end with the wildcard marker")

	// ErrInvalidMountTarget indicates a mount declaration whose constructor
	// is nil or yields a nil page.
	ErrInvalidMountTarget = errors.New("mount target is not a routable page")

	// ErrMountDepthExceeded indicates reroute delegation recursed past the
	// configured depth limit, usually a mount cycle.
	ErrMountDepthExceeded = errors.New("mount recursion depth exceeded")

	// ErrHandlerPanic indicates an invoked handler member panicked.
	ErrHandlerPanic = errors.New("handler panicked")
)

// ConfigError reports an invalid route declaration or handler signature.
// It is fatal and never retried: invalid mount targets and malformed
// patterns are reported at registry build time, unsupported handler
// signatures at the moment that specific handler is invoked.
type ConfigError struct {
	// Page is the offending page type, when known.
	Page reflect.Type
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Page != nil {
		return fmt.Sprintf("pagemux: config: %s: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("pagemux: config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DispatchError wraps a failure raised by an invoked handler member. The
// failure is propagated to the caller of Dispatch with no retry; response
// state mutated before the failure is not rolled back.
type DispatchError struct {
	// Pattern is the raw pattern of the member that failed, when known.
	Pattern string
	Err     error
}

func (e *DispatchError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("pagemux: dispatch %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("pagemux: dispatch: %v", e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
