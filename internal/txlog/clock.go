package txlog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so transaction stamping is deterministic
// in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts the random suffix of transaction ids so tests are
// deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces short random suffixes from UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string {
	// The first UUID group gives 8 hex chars of randomness, plenty for a
	// suffix that only disambiguates ids created in the same millisecond.
	return strings.SplitN(uuid.New().String(), "-", 2)[0]
}
