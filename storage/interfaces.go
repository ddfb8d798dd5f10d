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


package storage

import (
	"context"
	"time"

	"github.com/poiesic/mentorit/core"
)

type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

type MentorRepository interface {
	Repository
	// AddMentors appends mentors after the ones already stored, in order.
	// Every mentor must pass core.ValidateMentor.
	// Returns ErrDuplicateKey if an ID is already stored or repeats in the call;
	// in that case nothing is written.
	AddMentors(ctx context.Context, mentors ...core.Mentor) error

	// GetMentor retrieves a single mentor by ID.
	// Returns ErrNotFound if the mentor doesn't exist.
	GetMentor(ctx context.Context, id string) (core.Mentor, error)

	// ListMentors returns every stored mentor in insertion order.
	ListMentors(ctx context.Context) ([]core.Mentor, error)

	// DeleteMentors removes mentors by ID. The order of the remaining
	// mentors is unchanged.
	// Returns ErrNotFound if any mentor doesn't exist.
	DeleteMentors(ctx context.Context, ids ...string) error

	// Count returns the number of stored mentors.
	Count(ctx context.Context) (int, error)

	// ReplaceMentors removes every stored mentor and stores mentors in
	// their place, atomically. On error the stored mentors are unchanged.
	ReplaceMentors(ctx context.Context, mentors ...core.Mentor) error

	// Clear removes every stored mentor.
	Clear(ctx context.Context) error
}

// Manifest describes the most recent import into a repository.
type Manifest struct {
	Source      string
	Accepted    int
	Rejected    int
	Fingerprint uint64
	ImportedAt  time.Time
}

type ManifestRepository interface {
	// SaveManifest replaces the stored manifest.
	// Sets ImportedAt if not already set.
	SaveManifest(ctx context.Context, manifest *Manifest) error

	// LoadManifest retrieves the stored manifest.
	// Returns nil, nil if nothing has been imported yet.
	LoadManifest(ctx context.Context) (*Manifest, error)
}
