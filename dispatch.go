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
	"log/slog"

	"pagemux.dev/pagemux/pattern"
)

// Dispatcher routes a host request context against a page's registry tree.
// It is stateless across requests beyond reading the immutable registries,
// and is safe for concurrent use.
//
// Dispatch walks the decision ladder: api handlers, then path handlers,
// then reroute mounts, then not-found.
// Reroute delegation recursively dispatches the remaining path suffix
// against a fresh instance of the mounted page type.
type Dispatcher struct {
	registries *Registries
	logger     *slog.Logger
	recorder   DispatchRecorder
	maxDepth   int
}

// New returns a Dispatcher using the process-wide registry cache. See the
// package documentation for why New does not return an error.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registries: DefaultRegistries(),
		logger:     noopLogger,
		maxDepth:   defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes c against page.
//
// The returned Outcome is Done when a handler ran, NotFound when nothing
// matched (the Ctx's NotFound callback, if any, has already been invoked),
// and Failed alongside a non-nil error. Errors are ConfigError for
// declaration problems and DispatchError for handler failures; response
// state mutated before a failure is not rolled back.
func (d *Dispatcher) Dispatch(c *Ctx, page Page) (Outcome, error) {
	ctx := c.context()
	var state any
	if d.recorder != nil {
		ctx, state = d.recorder.OnDispatchStart(ctx, c)
		c.Context = ctx
	}

	outcome, matched, err := d.dispatch(c, page, c.Path, 0)

	if d.recorder != nil && state != nil {
		d.recorder.OnDispatchEnd(ctx, state, outcome, matched, err)
	}
	return outcome, err
}

// Supports probes, without side effects, whether the page's routing tree
// (including its mounts, recursively) can service the given path segments.
// It never executes handlers or filters and is idempotent. The only
// possible error is a ConfigError from building a registry touched for the
// first time.
func (d *Dispatcher) Supports(page Page, path []string) (bool, error) {
	reg, err := d.registries.GetOrBuild(page)
	if err != nil {
		return false, err
	}
	return d.supports(reg, path, 0)
}

// Flatten walks the mount tree rooted at page and returns the discovery
// map of fully-qualified api paths to their members. It never invokes
// handlers. See flatten.go for the walk rules.
func (d *Dispatcher) Flatten(page Page) (map[string]Member, error) {
	return d.flattenRoot(page)
}

func (d *Dispatcher) dispatch(c *Ctx, page Page, path []string, depth int) (Outcome, string, error) {
	if depth > d.maxDepth {
		return Failed, "", &DispatchError{Err: fmt.Errorf("%w (limit %d)", ErrMountDepthExceeded, d.maxDepth)}
	}
	reg, err := d.registries.GetOrBuild(page)
	if err != nil {
		return Failed, "", err
	}

	if handled, matched, err := d.tryAPI(c, page, reg, path); handled {
		return outcomeFor(err), matched, err
	}
	if handled, matched, err := d.tryPath(c, page, reg, path); handled {
		return outcomeFor(err), matched, err
	}
	if handled, matched, err := d.tryReroute(c, page, reg, path, depth); handled {
		return outcomeFor(err), matched, err
	} else if err != nil {
		return Failed, matched, err
	}

	d.logger.Debug("no route matched", "page", reg.Key().String(), "path", path)
	if c.NotFound != nil {
		c.NotFound(c)
	}
	return NotFound, "", nil
}

func outcomeFor(err error) Outcome {
	if err != nil {
		return Failed
	}
	return Done
}

// tryAPI attempts the api-handler table: no method filtering, first match
// is primary, full before/after chains around it.
func (d *Dispatcher) tryAPI(c *Ctx, page Page, reg *Registry, path []string) (bool, string, error) {
	hits := reg.api.FindMatches(path)
	if len(hits) == 0 {
		return false, "", nil
	}
	primary := hits[0]
	d.logger.Debug("api handler matched", "pattern", primary.Raw)
	return true, primary.Raw, d.runMatched(c, page, reg, primary, path)
}

// tryPath is tryAPI with the entries additionally filtered by the current
// request's method. The primary is the first entry whose filter accepted
// the method, not merely the first entry sharing its pattern.
func (d *Dispatcher) tryPath(c *Ctx, page Page, reg *Registry, path []string) (bool, string, error) {
	hits := reg.path.FindMatchesMethod(path, c.Method)
	if len(hits) == 0 {
		return false, "", nil
	}
	primary := hits[0]
	d.logger.Debug("path handler matched", "pattern", primary.Raw, "method", c.Method)
	return true, primary.Raw, d.runMatched(c, page, reg, primary, path)
}

// runMatched executes the standard handler sandwich: every matching
// before-filter, the primary member with its captures bound, then every
// matching after-filter.
func (d *Dispatcher) runMatched(c *Ctx, page Page, reg *Registry, primary pattern.Hit[Member], path []string) error {
	if err := d.runChain(c, page, &reg.before, path); err != nil {
		return err
	}
	if err := d.invokeHit(c, page, primary, path); err != nil {
		return err
	}
	return d.runChain(c, page, &reg.after, path)
}

// tryReroute attempts delegation to a mounted page type. A failed support
// probe yields (false, "", nil) with zero side effects: no filters run, no
// state mutated, and dispatch falls through to NotFound.
func (d *Dispatcher) tryReroute(c *Ctx, page Page, reg *Registry, path []string, depth int) (bool, string, error) {
	hits := reg.reroute.FindMatches(path)
	if len(hits) == 0 {
		return false, "", nil
	}
	primary := hits[0]
	if !primary.Pattern.HasWildcard() {
		return false, primary.Raw, &ConfigError{
			Page: reg.Key(),
			Err:  fmt.Errorf("%w: %q", ErrRerouteNotWildcard, primary.Raw),
		}
	}
	ent := primary.Value
	suffix := path[primary.Pattern.PrefixLen():]

	target, err := d.registries.getOrBuild(ent.target, ent.create)
	if err != nil {
		return false, primary.Raw, err
	}
	supported, err := d.supports(target, suffix, depth+1)
	if err != nil {
		return false, primary.Raw, err
	}
	if !supported {
		d.logger.Debug("reroute probe rejected", "pattern", primary.Raw, "suffix", suffix)
		return false, "", nil
	}

	// Before-filters run against the full original path on the current
	// instance; the delegate handles only the suffix.
	if err := d.runChain(c, page, &reg.before, path); err != nil {
		return true, primary.Raw, err
	}

	delegate := ent.create()
	d.logger.Debug("rerouting", "pattern", primary.Raw, "target", ent.target.String())
	if _, _, err := d.dispatch(c, delegate, suffix, depth+1); err != nil {
		return true, primary.Raw, err
	}

	// After-filters keep the original path but run against the delegate
	// instance, so they observe the delegate's resulting state.
	if err := d.runChain(c, delegate, &reg.after, path); err != nil {
		return true, primary.Raw, err
	}
	return true, primary.Raw, nil
}

// supports is the recursive read-only probe: true if the path or api table
// matches, else true if a reroute entry matches and its target supports
// the computed suffix. Beyond the depth cap everything is unsupported.
func (d *Dispatcher) supports(reg *Registry, path []string, depth int) (bool, error) {
	if depth > d.maxDepth {
		return false, nil
	}
	if len(reg.path.FindMatches(path)) > 0 || len(reg.api.FindMatches(path)) > 0 {
		return true, nil
	}
	hits := reg.reroute.FindMatches(path)
	if len(hits) == 0 {
		return false, nil
	}
	primary := hits[0]
	ent := primary.Value
	target, err := d.registries.getOrBuild(ent.target, ent.create)
	if err != nil {
		return false, err
	}
	return d.supports(target, path[min(primary.Pattern.PrefixLen(), len(path)):], depth+1)
}

// runChain invokes every member of the table matching the path, in
// registration order, binding each member's own captures before its call.
// Entries sharing a raw pattern each run once.
func (d *Dispatcher) runChain(c *Ctx, page Page, table *pattern.Table[Member], path []string) error {
	for _, hit := range table.FindMatches(path) {
		if err := d.invokeHit(c, page, hit, path); err != nil {
			return err
		}
	}
	return nil
}

// invokeHit binds the matched entry's named captures into the parameter
// sink and invokes its member.
func (d *Dispatcher) invokeHit(c *Ctx, page Page, hit pattern.Hit[Member], path []string) error {
	if c.Params == nil {
		c.Params = make(ParamMap)
	}
	hit.Pattern.Bind(path, c.Params.Set)
	return d.invoke(c, page, hit.Value, hit.Raw)
}
