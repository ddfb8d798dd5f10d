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


package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceRequired is returned when a nil Source is supplied.
	ErrSourceRequired = errors.New("catalog source required")

	// ErrInvalidFormat indicates catalog data that is not a JSON array of records.
	ErrInvalidFormat = errors.New("catalog data must be a JSON array")

	// ErrInvalidMaxAttempts is returned when retry attempts is less than 1.
	ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")
)

// LoadError reports that a Source failed to produce catalog data.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load from %s failed: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
