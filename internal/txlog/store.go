package txlog

// Store abstracts the keyed persistence backing the transaction log.
// Implementations are not required to be safe for concurrent use; the log
// is single-writer by design.
type Store interface {
	// Get returns the value for key. found is false when the key is absent;
	// absence is not an error.
	Get(key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any existing value.
	Set(key string, value []byte) error

	// Remove deletes key. Removing an absent key is a no-op, not an error.
	Remove(key string) error

	// Keys returns every stored key beginning with prefix, in unspecified
	// order.
	Keys(prefix string) ([]string, error)
}
