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


// Package storage provides the persistence layer for mentor catalogs.
//
// This package defines repository interfaces that decouple the storage
// implementation from import and discovery logic, plus the MUS encoding used
// to store mentors on disk.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: transaction support and lifecycle
//   - MentorRepository: ordered mentor records keyed by ID
//
// Insertion order is part of the stored data. Listing a repository returns
// mentors in the order they were added, which becomes the catalog's load
// order and the "recommended" ranking.
//
// # Usage
//
// Open a persistent repository:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, err := badger.NewMentorRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation.
// Long scans check the context between records.
package storage
