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

import (
	"fmt"
	"strings"
)

const (
	// MaxRating is the upper bound of a mentor rating.
	MaxRating = 5.0
	// MaxAttendanceRate is the upper bound of an attendance percentage.
	MaxAttendanceRate = 100.0
)

// ValidateMentor validates a Mentor according to domain rules.
//
// Validation rules:
//   - ID, Name and Category must not be empty
//   - Skills must be present (an empty, non-nil list is allowed)
//   - Price must not be negative
//   - Rating must be within 0..5
//   - ReviewCount, SessionsCount and ExperienceYears must not be negative
//   - AttendanceRate must be within 0..100
//
// NOT validated (display only):
//   - Role, Company, About, Currency and the other display strings
//   - Subfields, Badges
//
// Every returned error wraps ErrMalformedRecord.
func ValidateMentor(m *Mentor) error {
	if m == nil {
		return fmt.Errorf("%w: record is nil", ErrMalformedRecord)
	}

	if strings.TrimSpace(m.ID) == "" {
		return missing("id")
	}
	if strings.TrimSpace(m.Name) == "" {
		return missing("name")
	}
	if strings.TrimSpace(m.Category) == "" {
		return missing("category")
	}
	if m.Skills == nil {
		return missing("skills")
	}

	if m.Price < 0 {
		return fmt.Errorf("%w: %w: %v", ErrMalformedRecord, ErrNegativePrice, m.Price)
	}
	if !IsValidRating(m.Rating) {
		return fmt.Errorf("%w: %w: %v", ErrMalformedRecord, ErrInvalidRating, m.Rating)
	}
	if m.ReviewCount < 0 || m.SessionsCount < 0 || m.ExperienceYears < 0 {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, ErrNegativeCount)
	}
	if m.AttendanceRate < 0 || m.AttendanceRate > MaxAttendanceRate {
		return fmt.Errorf("%w: %w: %v", ErrMalformedRecord, ErrInvalidAttendance, m.AttendanceRate)
	}

	return nil
}

// IsValidRating checks that a rating lies within 0..MaxRating.
func IsValidRating(rating float64) bool {
	return rating >= 0 && rating <= MaxRating
}

func missing(field string) error {
	return fmt.Errorf("%w: %w: %s", ErrMalformedRecord, ErrMissingField, field)
}
