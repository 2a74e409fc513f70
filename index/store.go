package index

import "context"

// Store persists the single serving bundle of a deployment. A store is
// bound to one location (a file path, an object key); Save overwrites the
// previous build.
type Store interface {
	// Save publishes a bundle. Implementations must not let a reader
	// observe a partially written artifact.
	Save(ctx context.Context, bundle *Bundle) error

	// Load reads and verifies the current bundle. Returns
	// ErrBundleNotFound when no build has been published, and a
	// ValidationError when the artifact exists but cannot be served.
	Load(ctx context.Context) (*Bundle, error)

	// Exists reports whether a bundle has been published.
	Exists(ctx context.Context) (bool, error)
}
