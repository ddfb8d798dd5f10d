package catalog

import (
	"encoding/binary"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/mentorit/core"
)

// Catalog is an ordered, read-only sequence of validated mentors.
// It is never mutated after construction and may be shared freely.
type Catalog struct {
	mentors     []core.Mentor
	index       map[string]int
	fingerprint uint64
}

// Empty returns a catalog with no mentors.
func Empty() *Catalog {
	c, _ := build(nil)
	return c
}

// New builds a catalog from mentors in the given order. Records failing
// core.ValidateMentor, and records repeating an earlier ID, are left out and
// listed in the returned report.
func New(mentors []core.Mentor) (*Catalog, Report) {
	candidates := make([]Candidate, len(mentors))
	for i := range mentors {
		candidates[i] = Candidate{Mentor: mentors[i]}
	}
	return build(candidates)
}

func build(candidates []Candidate) (*Catalog, Report) {
	c := &Catalog{
		mentors: make([]core.Mentor, 0, len(candidates)),
		index:   make(map[string]int, len(candidates)),
	}
	var report Report

	for i, cand := range candidates {
		if cand.Err != nil {
			report.Rejected = append(report.Rejected, Rejection{Index: i, ID: cand.Mentor.ID, Err: cand.Err})
			continue
		}
		m := cand.Mentor
		if err := core.ValidateMentor(&m); err != nil {
			report.Rejected = append(report.Rejected, Rejection{Index: i, ID: m.ID, Err: err})
			continue
		}
		if _, dup := c.index[m.ID]; dup {
			err := fmt.Errorf("%w: %w: %s", core.ErrMalformedRecord, core.ErrDuplicateID, m.ID)
			report.Rejected = append(report.Rejected, Rejection{Index: i, ID: m.ID, Err: err})
			continue
		}

		// Detach from the caller's backing arrays
		m.Skills = slices.Clone(m.Skills)
		m.Subfields = slices.Clone(m.Subfields)
		m.Badges = slices.Clone(m.Badges)

		c.index[m.ID] = len(c.mentors)
		c.mentors = append(c.mentors, m)
	}

	report.Accepted = len(c.mentors)
	c.fingerprint = computeFingerprint(c.mentors)
	return c, report
}

// Len returns the number of mentors.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.mentors)
}

// At returns the mentor at position i in load order.
func (c *Catalog) At(i int) core.Mentor {
	return c.mentors[i]
}

// Get looks up a mentor by ID.
func (c *Catalog) Get(id string) (core.Mentor, bool) {
	if c == nil {
		return core.Mentor{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return core.Mentor{}, false
	}
	return c.mentors[i], true
}

// Position returns the load-order position of id, or -1.
func (c *Catalog) Position(id string) int {
	if c == nil {
		return -1
	}
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// All iterates over the mentors in load order.
func (c *Catalog) All() iter.Seq2[int, core.Mentor] {
	return func(yield func(int, core.Mentor) bool) {
		if c == nil {
			return
		}
		for i, m := range c.mentors {
			if !yield(i, m) {
				return
			}
		}
	}
}

// Mentors returns a copy of the mentor sequence in load order.
func (c *Catalog) Mentors() []core.Mentor {
	if c == nil {
		return nil
	}
	return slices.Clone(c.mentors)
}

// Fingerprint identifies the catalog contents relevant to ranking: IDs,
// categories and skills in load order. Equal catalogs have equal fingerprints.
func (c *Catalog) Fingerprint() uint64 {
	if c == nil {
		return 0
	}
	return c.fingerprint
}

// computeFingerprint hashes the ranking-relevant fields with BLAKE2b-64.
func computeFingerprint(mentors []core.Mentor) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	for _, m := range mentors {
		h.Write([]byte(m.ID))
		h.Write([]byte{0})
		h.Write([]byte(m.Category))
		h.Write([]byte{0})
		h.Write([]byte(strings.Join(m.Skills, "\x1f")))
		h.Write([]byte{0x1e})
	}
	return binary.LittleEndian.Uint64(h.Sum(nil))
}
