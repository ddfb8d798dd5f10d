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


// Package catalog provides the read-only mentor catalog and its loading path.
//
// A Catalog is an ordered, immutable snapshot of validated mentor records.
// Load order is preserved and acts as the baseline ("recommended") ordering
// and the tie-break for every ranking built on top of it.
//
// # Loading
//
// Records come from a Source. Each Source returns Candidates: either a decoded
// mentor or the error that prevented decoding it. Load validates every
// candidate and drops the malformed ones without failing; only a Source that
// cannot produce data at all yields a *LoadError:
//
//	cat, report, err := catalog.Load(ctx, catalog.NewFileSource("mentors.json"))
//	if err != nil {
//	    // cat is empty, err is a *LoadError
//	}
//	for _, r := range report.Rejected {
//	    log.Println(r.Index, r.ID, r.Err)
//	}
//
// # Sessions
//
// Session owns the catalog for the lifetime of a view. It reloads from its
// Source with exponential backoff and serves an empty catalog after a failed
// load until a later load succeeds. Snapshot returns the current catalog and
// is safe for concurrent use.
package catalog
