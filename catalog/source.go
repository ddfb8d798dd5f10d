package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/poiesic/mentorit/core"
)

// Candidate is one record produced by a Source. Err is set when the record
// could not be decoded; such candidates are rejected by Load.
type Candidate struct {
	Mentor core.Mentor
	Err    error
}

// Source produces catalog records in load order.
type Source interface {
	// Name identifies the source in logs and load errors.
	Name() string

	// Fetch returns every record in load order. An empty result is not an
	// error. A non-nil error means no data could be produced at all.
	Fetch(ctx context.Context) ([]Candidate, error)
}

// JSONSource reads a JSON array of mentor objects.
type JSONSource struct {
	name string
	open func() (io.ReadCloser, error)
}

var _ Source = (*JSONSource)(nil)

// NewFileSource reads records from a JSON file on every Fetch.
func NewFileSource(path string) *JSONSource {
	return &JSONSource{
		name: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewBytesSource serves records from an in-memory JSON document.
func NewBytesSource(name string, data []byte) *JSONSource {
	return &JSONSource{
		name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Name returns the source name.
func (s *JSONSource) Name() string {
	return s.name
}

// Fetch reads and decodes the document.
func (s *JSONSource) Fetch(ctx context.Context) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := s.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raws, err := DecodeArray(rc)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(raws))
	for i, raw := range raws {
		m, err := DecodeRecord(raw)
		candidates[i] = Candidate{Mentor: m, Err: err}
	}
	return candidates, nil
}

// DecodeArray splits a JSON array into raw record documents without decoding
// them. A document that is not an array fails with ErrInvalidFormat.
func DecodeArray(r io.Reader) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return raws, nil
}

// record mirrors the wire shape. Required fields are pointers so that a
// missing key can be told apart from a zero value.
type record struct {
	ID                *flexString `json:"id"`
	Name              *string     `json:"name"`
	Role              string      `json:"role"`
	Company           string      `json:"company"`
	Rating            float64     `json:"rating"`
	ReviewCount       int         `json:"reviewCount"`
	Country           string      `json:"country"`
	CountryCode       string      `json:"countryCode"`
	Skills            []string    `json:"skills"`
	About             string      `json:"about"`
	Price             *float64    `json:"price"`
	Currency          string      `json:"currency"`
	AvailabilityLabel string      `json:"availability"`
	Category          *string     `json:"category"`
	Subfields         []string    `json:"subfields"`
	Badges            []string    `json:"badges"`
	ResponseTime      string      `json:"responseTime"`
	LastActive        string      `json:"lastActive"`
	ExperienceYears   float64     `json:"experienceYears"`
	SessionsCount     int         `json:"sessionsCount"`
	AttendanceRate    float64     `json:"attendanceRate"`
}

// flexString accepts both JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// DecodeRecord decodes one JSON object into a Mentor and checks that the
// required keys (id, name, price, category, skills) are present.
// Semantic validation is left to core.ValidateMentor.
func DecodeRecord(raw json.RawMessage) (core.Mentor, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return core.Mentor{}, fmt.Errorf("%w: %w", core.ErrMalformedRecord, err)
	}

	m := core.Mentor{
		Role:              rec.Role,
		Company:           rec.Company,
		Rating:            rec.Rating,
		ReviewCount:       rec.ReviewCount,
		Country:           rec.Country,
		CountryCode:       rec.CountryCode,
		Skills:            rec.Skills,
		About:             rec.About,
		Currency:          rec.Currency,
		AvailabilityLabel: rec.AvailabilityLabel,
		Subfields:         rec.Subfields,
		Badges:            rec.Badges,
		ResponseTime:      rec.ResponseTime,
		LastActive:        rec.LastActive,
		ExperienceYears:   rec.ExperienceYears,
		SessionsCount:     rec.SessionsCount,
		AttendanceRate:    rec.AttendanceRate,
	}
	if rec.ID != nil {
		m.ID = string(*rec.ID)
	}

	switch {
	case rec.ID == nil:
		return m, missingField("id")
	case rec.Name == nil:
		return m, missingField("name")
	case rec.Price == nil:
		return m, missingField("price")
	case rec.Category == nil:
		return m, missingField("category")
	case rec.Skills == nil:
		return m, missingField("skills")
	}

	m.Name = *rec.Name
	m.Price = *rec.Price
	m.Category = *rec.Category
	return m, nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: %w: %s", core.ErrMalformedRecord, core.ErrMissingField, name)
}
