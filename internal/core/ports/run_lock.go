package ports

import "context"

// RunLock guards against cross-invocation overlap: two sync runs must never
// process the same window concurrently. Acquisition is non-blocking: a held
// lock means another run is active, and the caller exits immediately with an
// "already running" result instead of waiting.
type RunLock interface {
	// TryAcquire attempts to take the lock without blocking. Returns false
	// when another invocation holds it.
	TryAcquire(ctx context.Context) (bool, error)

	// Release releases the lock. Must be called on every exit path,
	// including error paths.
	Release(ctx context.Context) error
}
