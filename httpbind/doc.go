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

// Package httpbind adapts net/http to the pagemux host request context.
//
// Handler implements http.Handler: it tokenizes the URL path, seeds the
// parameter sink from the query string, dispatches against the root page,
// and renders the response: the structured sink as a JSON body when
// non-empty, otherwise the text buffer as plain text.
//
//	h := httpbind.New(&RootPage{})
//	err := httpbind.Serve(":8080", h)
//
// Serve wraps http.Server with hardened timeouts and optional HTTP/2
// cleartext support for deployments behind a trusted load balancer.
package httpbind
