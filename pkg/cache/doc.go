// Package cache provides a generic key-value cache with an in-process
// backend and a Redis backend behind one [Cache] interface.
//
// The session store and the form token storage are built on it: the
// in-memory backend serves development and tests, Redis serves
// deployments with more than one process.
//
// TTL semantics for Set:
//   - Positive duration: the entry expires after this duration
//   - Zero: the backend default TTL applies (1 hour unless configured)
//   - Negative: the entry never expires
//
// [Cache.Take] reads and removes an entry in one step. Single-use values
// such as anti-forgery tokens rely on it so that two concurrent readers
// can never both observe the same entry.
//
// # In-memory
//
//	c := cache.NewMemory[string](
//	    cache.WithDefaultTTL(5*time.Minute),
//	    cache.WithMaxEntries(10000),
//	)
//	defer c.Close()
//
// # Redis
//
//	c := cache.NewRedis[Session](client, nil, cache.WithPrefix("sess"))
//
// Values are encoded as JSON unless a custom [Marshaler] is supplied.
//
// [GetOrSet] deduplicates concurrent misses for the same key.
package cache
