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


package core

import "errors"

// Domain validation errors
var (
	// ErrMalformedRecord indicates a Mentor failed validation and must be
	// excluded from a catalog.
	ErrMalformedRecord = errors.New("malformed mentor record")

	// ErrMissingField indicates a required field is absent or empty.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidRating indicates a rating outside 0.0..5.0.
	ErrInvalidRating = errors.New("rating must be between 0 and 5")

	// ErrNegativePrice indicates a price below zero.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrNegativeCount indicates a negative review count, sessions count
	// or experience value.
	ErrNegativeCount = errors.New("count cannot be negative")

	// ErrInvalidAttendance indicates an attendance rate outside 0..100.
	ErrInvalidAttendance = errors.New("attendance rate must be between 0 and 100")

	// ErrDuplicateID indicates a mentor ID already present in the catalog.
	ErrDuplicateID = errors.New("duplicate mentor id")

	// ErrUnknownSortKey indicates a sort key string that is not recognized.
	ErrUnknownSortKey = errors.New("unknown sort key")
)
