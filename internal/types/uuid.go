package types

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_LEASE           = "lease"
	UUID_PREFIX_UNIT            = "unit"
	UUID_PREFIX_RENEWAL_REQUEST = "rnw"
	UUID_PREFIX_NOTIFICATION    = "ntf"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GenerateUUID returns a lowercase ULID, sortable by creation time
func GenerateUUID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// GenerateUUIDWithPrefix returns a ULID prefixed with the entity prefix, e.g. rnw_01h...
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
