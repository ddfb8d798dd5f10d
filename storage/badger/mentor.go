package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
	"github.com/poiesic/mentorit/storage"
)

// MentorRepository implements storage.MentorRepository for BadgerDB.
// It also serves as a catalog.Source that yields the stored mentors in
// insertion order.
type MentorRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var (
	_ storage.MentorRepository = (*MentorRepository)(nil)
	_ catalog.Source           = (*MentorRepository)(nil)
)

// NewMentorRepository creates a new MentorRepository.
func NewMentorRepository(backend *Backend) (*MentorRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	seq, err := backend.GetSequence(mentorSeq)
	if err != nil {
		return nil, err
	}

	return &MentorRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the position sequence.
func (r *MentorRepository) Close() error {
	return r.seq.Release()
}

// WithTransaction delegates to the backend.
func (r *MentorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddMentors appends mentors in order within a single transaction.
func (r *MentorRepository) AddMentors(ctx context.Context, mentors ...core.Mentor) error {
	if err := checkMentors(ctx, mentors); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := r.put(tx, mentors); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ReplaceMentors drops every stored mentor and stores mentors in their place
// within one transaction. On error the stored mentors are unchanged.
func (r *MentorRepository) ReplaceMentors(ctx context.Context, mentors ...core.Mentor) error {
	if err := checkMentors(ctx, mentors); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		keys := collectKeys(tx, mentorPrefix, mentorIDPrefix)
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		if err := r.put(tx, mentors); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func checkMentors(ctx context.Context, mentors []core.Mentor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range mentors {
		if err := core.ValidateMentor(&mentors[i]); err != nil {
			return err
		}
	}
	return nil
}

// put writes mentors after the last assigned position.
func (r *MentorRepository) put(tx *badger.Txn, mentors []core.Mentor) error {
	for _, m := range mentors {
		idKey := makeMentorIDKey(m.ID)

		// Pending writes are visible here, so repeats within the call are caught too
		_, err := tx.Get(idKey)
		if err == nil {
			return fmt.Errorf("%w: %s", storage.ErrDuplicateKey, m.ID)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		pos, err := r.seq.Next()
		if err != nil {
			return err
		}

		if err := tx.Set(makeMentorKey(pos), storage.MarshalMentor(m)); err != nil {
			return err
		}
		if err := tx.Set(idKey, storage.MarshalPosition(pos)); err != nil {
			return err
		}
	}
	return nil
}

// GetMentor retrieves a single mentor by ID.
func (r *MentorRepository) GetMentor(ctx context.Context, id string) (core.Mentor, error) {
	var result core.Mentor
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		pos, err := r.readPosition(tx, id)
		if err != nil {
			return err
		}
		result, err = r.readMentor(tx, makeMentorKey(pos))
		return err
	}, false)
	return result, err
}

// ListMentors returns every stored mentor in insertion order.
// Fails on the first record that cannot be decoded.
func (r *MentorRepository) ListMentors(ctx context.Context) ([]core.Mentor, error) {
	var result []core.Mentor
	err := r.scan(ctx, func(_ uint64, m core.Mentor, err error) error {
		if err != nil {
			return err
		}
		result = append(result, m)
		return nil
	})
	return result, err
}

// DeleteMentors removes mentors by their IDs.
func (r *MentorRepository) DeleteMentors(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			pos, err := r.readPosition(tx, id)
			if err != nil {
				return err
			}
			if err := tx.Delete(makeMentorKey(pos)); err != nil {
				return err
			}
			if err := tx.Delete(makeMentorIDKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of stored mentors.
func (r *MentorRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(mentorPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Clear removes every stored mentor.
func (r *MentorRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.backend.DeletePrefix(mentorPrefix, mentorIDPrefix)
	return err
}

// Name identifies the repository as a catalog source.
func (r *MentorRepository) Name() string {
	return "badger"
}

// Fetch implements catalog.Source. Records that cannot be decoded are
// returned as rejected candidates instead of failing the whole fetch.
func (r *MentorRepository) Fetch(ctx context.Context) ([]catalog.Candidate, error) {
	var candidates []catalog.Candidate
	err := r.scan(ctx, func(_ uint64, m core.Mentor, err error) error {
		if err != nil {
			err = fmt.Errorf("%w: %w", core.ErrMalformedRecord, err)
		}
		candidates = append(candidates, catalog.Candidate{Mentor: m, Err: err})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// scan visits stored mentors in position order. Decode errors are passed
// to fn; an error returned by fn stops the scan.
func (r *MentorRepository) scan(ctx context.Context, fn func(pos uint64, m core.Mentor, err error) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(mentorPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			pos := positionFromKey(item.Key())

			var m core.Mentor
			decodeErr := item.Value(func(val []byte) error {
				var err error
				m, err = storage.UnmarshalMentor(val)
				return err
			})
			if err := fn(pos, m, decodeErr); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readPosition looks up the position of id.
// Returns storage.ErrNotFound if the ID isn't stored.
func (r *MentorRepository) readPosition(tx *badger.Txn, id string) (uint64, error) {
	item, err := tx.Get(makeMentorIDKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("%w: mentor %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return 0, err
	}

	var pos uint64
	err = item.Value(func(val []byte) error {
		var err error
		pos, err = storage.UnmarshalPosition(val)
		return err
	})
	return pos, err
}

// readMentor reads a mentor from a transaction.
func (r *MentorRepository) readMentor(tx *badger.Txn, key []byte) (core.Mentor, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return core.Mentor{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Mentor{}, err
	}

	var m core.Mentor
	err = item.Value(func(val []byte) error {
		var err error
		m, err = storage.UnmarshalMentor(val)
		return err
	})
	return m, err
}
