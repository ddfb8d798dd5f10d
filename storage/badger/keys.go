package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types. No prefix may be a prefix of
// another, since Clear deletes whole prefixes.
const (
	mentorPrefix   = "mnt:"
	mentorIDPrefix = "mntid:"
	mentorSeq      = "seq:mnt"
	manifestKey    = "meta:manifest"
)

// makeMentorKey generates the primary key for the mentor at a load-order
// position. Format: prefix + big-endian position, so key order is load order.
func makeMentorKey(pos uint64) []byte {
	buf := make([]byte, len(mentorPrefix)+8)
	offset := copy(buf, mentorPrefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], pos)
	return buf
}

// positionFromKey extracts the position from a primary mentor key.
func positionFromKey(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(mentorPrefix):])
}

// makeMentorIDKey generates the index key mapping a mentor ID to its position.
// Format: prefix:id
func makeMentorIDKey(id string) []byte {
	buf := make([]byte, len(mentorIDPrefix)+len(id))
	offset := copy(buf, mentorIDPrefix)
	copy(buf[offset:], id)
	return buf
}
