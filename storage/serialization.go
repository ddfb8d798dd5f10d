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
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/mentorit/core"
)

// MentorMUS is the MUS serializer for core.Mentor values.
//
// Fields are written in declaration order. Strings use ord.String, floats
// raw.Float64 and integers varint.Int. A string slice is its length followed
// by its elements; a nil slice is written with length -1 so that nil and
// empty survive a round trip.
var MentorMUS = mentorMUS{}

type mentorMUS struct{}

func (mentorMUS) Marshal(m core.Mentor, bs []byte) (n int) {
	n = ord.String.Marshal(m.ID, bs)
	n += ord.String.Marshal(m.Name, bs[n:])
	n += ord.String.Marshal(m.Role, bs[n:])
	n += ord.String.Marshal(m.Company, bs[n:])
	n += raw.Float64.Marshal(m.Rating, bs[n:])
	n += varint.Int.Marshal(m.ReviewCount, bs[n:])
	n += ord.String.Marshal(m.Country, bs[n:])
	n += ord.String.Marshal(m.CountryCode, bs[n:])
	n += marshalStrings(m.Skills, bs[n:])
	n += ord.String.Marshal(m.About, bs[n:])
	n += raw.Float64.Marshal(m.Price, bs[n:])
	n += ord.String.Marshal(m.Currency, bs[n:])
	n += ord.String.Marshal(m.AvailabilityLabel, bs[n:])
	n += ord.String.Marshal(m.Category, bs[n:])
	n += marshalStrings(m.Subfields, bs[n:])
	n += marshalStrings(m.Badges, bs[n:])
	n += ord.String.Marshal(m.ResponseTime, bs[n:])
	n += ord.String.Marshal(m.LastActive, bs[n:])
	n += raw.Float64.Marshal(m.ExperienceYears, bs[n:])
	n += varint.Int.Marshal(m.SessionsCount, bs[n:])
	n += raw.Float64.Marshal(m.AttendanceRate, bs[n:])
	return n
}

func (mentorMUS) Unmarshal(bs []byte) (m core.Mentor, n int, err error) {
	r := &reader{bs: bs}
	m.ID = r.string()
	m.Name = r.string()
	m.Role = r.string()
	m.Company = r.string()
	m.Rating = r.float()
	m.ReviewCount = r.int()
	m.Country = r.string()
	m.CountryCode = r.string()
	m.Skills = r.strings()
	m.About = r.string()
	m.Price = r.float()
	m.Currency = r.string()
	m.AvailabilityLabel = r.string()
	m.Category = r.string()
	m.Subfields = r.strings()
	m.Badges = r.strings()
	m.ResponseTime = r.string()
	m.LastActive = r.string()
	m.ExperienceYears = r.float()
	m.SessionsCount = r.int()
	m.AttendanceRate = r.float()
	if r.err != nil {
		return core.Mentor{}, r.n, r.err
	}
	return m, r.n, nil
}

func (mentorMUS) Size(m core.Mentor) (size int) {
	size = ord.String.Size(m.ID)
	size += ord.String.Size(m.Name)
	size += ord.String.Size(m.Role)
	size += ord.String.Size(m.Company)
	size += raw.Float64.Size(m.Rating)
	size += varint.Int.Size(m.ReviewCount)
	size += ord.String.Size(m.Country)
	size += ord.String.Size(m.CountryCode)
	size += sizeStrings(m.Skills)
	size += ord.String.Size(m.About)
	size += raw.Float64.Size(m.Price)
	size += ord.String.Size(m.Currency)
	size += ord.String.Size(m.AvailabilityLabel)
	size += ord.String.Size(m.Category)
	size += sizeStrings(m.Subfields)
	size += sizeStrings(m.Badges)
	size += ord.String.Size(m.ResponseTime)
	size += ord.String.Size(m.LastActive)
	size += raw.Float64.Size(m.ExperienceYears)
	size += varint.Int.Size(m.SessionsCount)
	size += raw.Float64.Size(m.AttendanceRate)
	return size
}

func marshalStrings(v []string, bs []byte) (n int) {
	if v == nil {
		return varint.Int.Marshal(-1, bs)
	}
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func sizeStrings(v []string) (size int) {
	if v == nil {
		return varint.Int.Size(-1)
	}
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

// reader walks a MUS buffer field by field. After the first error every
// further read returns a zero value.
type reader struct {
	bs  []byte
	n   int
	err error
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) float() float64 {
	if r.err != nil {
		return 0
	}
	v, n, err := raw.Float64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) int() int {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) strings() []string {
	length := r.int()
	if r.err != nil || length < 0 {
		return nil
	}
	if length > len(r.bs)-r.n {
		r.err = ErrTruncatedData
		return nil
	}
	v := make([]string, length)
	for i := range v {
		v[i] = r.string()
	}
	if r.err != nil {
		return nil
	}
	return v
}

// MarshalMentor serializes a Mentor to bytes.
func MarshalMentor(m core.Mentor) []byte {
	buf := make([]byte, MentorMUS.Size(m))
	MentorMUS.Marshal(m, buf)
	return buf
}

// UnmarshalMentor deserializes a Mentor from bytes.
func UnmarshalMentor(data []byte) (core.Mentor, error) {
	m, _, err := MentorMUS.Unmarshal(data)
	if err != nil {
		return core.Mentor{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return m, nil
}

// MarshalPosition serializes a load-order position to bytes.
func MarshalPosition(pos uint64) []byte {
	buf := make([]byte, varint.Uint64.Size(pos))
	varint.Uint64.Marshal(pos, buf)
	return buf
}

// UnmarshalPosition deserializes a load-order position from bytes.
func UnmarshalPosition(data []byte) (uint64, error) {
	pos, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return pos, nil
}

// MarshalManifest serializes a Manifest to bytes.
// ImportedAt is stored with microsecond precision.
func MarshalManifest(m *Manifest) []byte {
	micros := m.ImportedAt.UnixMicro()
	size := ord.String.Size(m.Source) +
		varint.Int.Size(m.Accepted) +
		varint.Int.Size(m.Rejected) +
		varint.Uint64.Size(m.Fingerprint) +
		varint.Int64.Size(micros)

	buf := make([]byte, size)
	n := ord.String.Marshal(m.Source, buf)
	n += varint.Int.Marshal(m.Accepted, buf[n:])
	n += varint.Int.Marshal(m.Rejected, buf[n:])
	n += varint.Uint64.Marshal(m.Fingerprint, buf[n:])
	varint.Int64.Marshal(micros, buf[n:])
	return buf
}

// UnmarshalManifest deserializes a Manifest from bytes.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	r := &reader{bs: data}
	m := &Manifest{
		Source:   r.string(),
		Accepted: r.int(),
		Rejected: r.int(),
	}
	if r.err == nil {
		var n int
		m.Fingerprint, n, r.err = varint.Uint64.Unmarshal(r.bs[r.n:])
		r.n += n
	}
	if r.err == nil {
		var micros int64
		micros, _, r.err = varint.Int64.Unmarshal(r.bs[r.n:])
		m.ImportedAt = time.UnixMicro(micros).UTC()
	}
	if r.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, r.err)
	}
	return m, nil
}
