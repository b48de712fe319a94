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

package httpbind

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"pagemux.dev/pagemux"
	"pagemux.dev/pagemux/pattern"
)

// Handler bridges net/http requests into pagemux dispatch against a fixed
// root page type. Safe for concurrent use.
type Handler struct {
	root       pagemux.Page
	dispatcher *pagemux.Dispatcher
	notFound   http.HandlerFunc
	logger     *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithDispatcher uses a preconfigured dispatcher (recorder, logger, custom
// registry cache) instead of a default one.
func WithDispatcher(d *pagemux.Dispatcher) HandlerOption {
	return func(h *Handler) {
		if d != nil {
			h.dispatcher = d
		}
	}
}

// WithNotFound sets the handler invoked when dispatch resolves to no
// route. The default writes a plain 404.
func WithNotFound(fn http.HandlerFunc) HandlerOption {
	return func(h *Handler) {
		h.notFound = fn
	}
}

// WithLogger sets a structured logger for request-level errors.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New returns a Handler dispatching every request against root.
func New(root pagemux.Page, opts ...HandlerOption) *Handler {
	h := &Handler{
		root:       root,
		dispatcher: pagemux.New(),
		logger:     pagemux.NoopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Endpoints returns the flattened discovery map of the root page's mount
// tree: fully-qualified api paths to handler members.
func (h *Handler) Endpoints() (map[string]pagemux.Member, error) {
	return h.dispatcher.Flatten(h.root)
}

// ServeHTTP implements http.Handler.
//
// The parameter sink is pre-seeded from the query string (first value per
// key); named captures bound during matching overwrite colliding query
// keys. Rendering order: structured sink as JSON when non-empty, else the
// text buffer as plain text, else an empty 200.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rw := &responseWriter{ResponseWriter: w}

	params := make(pagemux.ParamMap)
	for key, values := range req.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	var buf strings.Builder
	c := &pagemux.Ctx{
		Path:    pattern.Split(req.URL.Path),
		Method:  req.Method,
		Raw:     req,
		Writer:  rw,
		Params:  params,
		Text:    &buf,
		Out:     make(map[string]any),
		Context: req.Context(),
	}

	notFound := false
	c.NotFound = func(*pagemux.Ctx) { notFound = true }

	_, err := h.dispatcher.Dispatch(c, h.root)
	if err != nil {
		h.fail(rw, req, err)
		return
	}
	if notFound {
		if h.notFound != nil {
			h.notFound(rw, req)
			return
		}
		http.NotFound(rw, req)
		return
	}
	h.render(rw, c)
}

// fail maps dispatch errors to transport status codes: declaration
// problems are server misconfiguration, handler failures are internal
// errors. Bodies stay generic; details go to the logger.
func (h *Handler) fail(w http.ResponseWriter, req *http.Request, err error) {
	h.logger.Error("dispatch failed", "path", req.URL.Path, "error", err)

	var cfg *pagemux.ConfigError
	if errors.As(err, &cfg) {
		http.Error(w, "500 route configuration error", http.StatusInternalServerError)
		return
	}
	http.Error(w, "500 internal server error", http.StatusInternalServerError)
}

// render writes the response sinks: the structured sink wins when
// non-empty, falling back to the text buffer. Handlers that already wrote
// through the output writer directly are left alone.
func (h *Handler) render(w *responseWriter, c *pagemux.Ctx) {
	if len(c.Out) > 0 {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(c.Out); err != nil && !w.Written() {
			http.Error(w, "500 internal server error", http.StatusInternalServerError)
		}
		return
	}
	if c.Text.Len() > 0 {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		_, _ = w.Write([]byte(c.Text.String()))
		return
	}
	if !w.Written() {
		w.WriteHeader(http.StatusOK)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and
// size, and to suppress superfluous WriteHeader calls.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

// WriteHeader captures the status code and prevents duplicate calls.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

// Write captures the response size and marks the response as written.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the HTTP status code, defaulting to 200.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the response size in bytes.
func (rw *responseWriter) Size() int64 { return rw.size }

// Written returns true if headers have been written.
func (rw *responseWriter) Written() bool { return rw.written }
