// Package idx mints the time-ordered ids the service stamps on things it
// creates itself: interaction ids, signing key ids and decision token ids.
// Consent ids are not ULIDs; they carry a family prefix and a UUID.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a ULID for the current UTC time. Safe for concurrent use.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt returns a ULID stamped with t. Ids minted for the same millisecond
// still sort in call order.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// Prefixed returns "prefix-<ulid>", the shape used for signing key ids.
func Prefixed(prefix string) string {
	return prefix + "-" + New().String()
}

func (id ID) String() string { return string(id) }

// Time is the millisecond timestamp embedded in the id, zero if id is not a
// ULID.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}
