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
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// serverTimeouts holds HTTP server timeout configuration.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

// defaultServerTimeouts returns timeouts that protect against slowloris
// attacks and resource exhaustion.
func defaultServerTimeouts() serverTimeouts {
	return serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// serveCfg holds configuration for Serve.
type serveCfg struct {
	timeouts  serverTimeouts
	enableH2C bool
}

// ServeOption configures Serve.
type ServeOption func(*serveCfg)

// WithServerTimeouts overrides the default HTTP server timeouts.
func WithServerTimeouts(readHeader, read, write, idle time.Duration) ServeOption {
	return func(cfg *serveCfg) {
		cfg.timeouts = serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}

// WithH2C enables HTTP/2 cleartext support.
//
// Only use in development or behind a trusted load balancer; do not
// enable on public-facing servers without TLS.
func WithH2C(enable bool) ServeOption {
	return func(cfg *serveCfg) {
		cfg.enableH2C = enable
	}
}

// Serve runs an http.Server for the handler on addr with hardened
// timeouts, blocking until the server stops.
func Serve(addr string, handler http.Handler, opts ...ServeOption) error {
	cfg := serveCfg{timeouts: defaultServerTimeouts()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.enableH2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.timeouts.readHeader,
		ReadTimeout:       cfg.timeouts.read,
		WriteTimeout:      cfg.timeouts.write,
		IdleTimeout:       cfg.timeouts.idle,
	}
	return srv.ListenAndServe()
}
