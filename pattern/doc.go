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

// Package pattern implements slash-delimited route patterns and an ordered,
// generic pattern-to-value table.
//
// A pattern is a sequence of segments:
//
//   - literal segments match a request segment by exact, case-sensitive
//     string equality (e.g. "users")
//   - named segments begin with ':' and match any request segment while
//     capturing its value (e.g. ":id")
//   - a final "*" segment is a greedy wildcard consuming every remaining
//     request segment, including zero of them
//
// Tables preserve registration order, and that order is semantically
// meaningful: when several entries match the same request, the
// earliest-registered entry is the primary match. [Table.FindMatches]
// returns every matching raw pattern so callers can run full filter chains,
// or take only the first for single dispatch.
package pattern
