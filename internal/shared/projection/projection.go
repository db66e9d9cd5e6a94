package projection

import "time"

// Metadata captures persistence bookkeeping shared by projections.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	// Version starts at 1 and increases on every successful update.
	Version int64
}

// Projection represents an aggregate view plus persistence metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}
