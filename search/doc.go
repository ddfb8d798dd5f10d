// Copyright 2025 Poiesic Systems
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


// Package search implements mentor discovery and similarity ranking.
//
// The package functions are pure and operate on a single catalog snapshot:
//   - Matches tests a mentor against a free-text query
//   - Passes tests a mentor against facet selections
//   - Sort orders results stably by a core.SortKey
//   - Discover combines the three into the discovery pipeline
//   - Similar ranks mentors by shared category and skills
//
// Searcher wraps them for interactive callers. It reads the current catalog
// from a catalog.Session for every call and caches similarity results per
// catalog fingerprint.
package search
