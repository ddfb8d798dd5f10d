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


// Package debounce coalesces bursts of input into a single delayed call.
//
// A Debouncer is fed every keystroke of a search box. It waits until the
// input has been quiet for the configured window and then delivers only the
// most recent value:
//
//	d, err := debounce.New(func(q string) {
//		results := searcher.Discover(search.NewQuery(q))
//		render(results)
//	}, debounce.WithWindow(300*time.Millisecond))
//	if err != nil {
//		return err
//	}
//	defer d.Stop()
//
//	d.Trigger("py")
//	d.Trigger("pyth")
//	d.Trigger("python") // only "python" reaches the callback
//
// Flush delivers the pending value immediately, for example when the user
// presses Enter.
package debounce
