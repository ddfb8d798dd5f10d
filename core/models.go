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

import "strings"

// Mentor is a single mentor profile. Records are immutable once loaded into a
// catalog; callers must treat the slice fields as read-only.
type Mentor struct {
	ID                string
	Name              string
	Role              string
	Company           string
	Rating            float64 // 0.0 to 5.0
	ReviewCount       int
	Country           string
	CountryCode       string
	Skills            []string // Case preserved, compared case-insensitively
	About             string
	Price             float64
	Currency          string
	AvailabilityLabel string // Display only, never filtered on
	Category          string
	Subfields         []string // Display only
	Badges            []string // Display only
	ResponseTime      string
	LastActive        string
	ExperienceYears   float64
	SessionsCount     int
	AttendanceRate    float64 // Percentage, 0 to 100
}

// HasSkill reports whether the mentor lists the skill, ignoring case.
func (m *Mentor) HasSkill(skill string) bool {
	for _, s := range m.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}
