package util

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// New returns a ULID. IDs minted in the same millisecond still sort in
// creation order.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewID returns "<prefix>-<ulid>", lower-cased, e.g. "override-01j...".
func NewID(prefix string) string {
	id := strings.ToLower(New())
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
