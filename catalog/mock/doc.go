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


// Package mock provides a scriptable catalog.Source for tests.
//
// # Usage
//
//	src := mock.NewMockSource(mentors...)
//
//	// Fail the first two fetches
//	src.FetchFunc = mock.FailTimes(2, errors.New("network down"), mentors...)
//
//	// Check call counts
//	count := src.CallCount()
//
// # Default Behavior
//
// Without a FetchFunc, the source returns the mentors it was created with,
// in order, as valid candidates.
package mock
