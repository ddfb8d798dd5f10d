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


// Package ingestion imports mentor catalogs into persistent storage.
// The Pipeline type manages the import workflow:
//   - Splitting a JSON document into records
//   - Decoding and validating records concurrently on a worker pool
//   - Dropping malformed and duplicate records into a report
//   - Writing accepted records to storage in batches, in source order
// The stored order is the order later served to discovery.
package ingestion
