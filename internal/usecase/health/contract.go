package health

import "context"

// Pinger checks availability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the grid index is present.
type IndexChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}
