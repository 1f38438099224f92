package jobs

import (
	"context"
	"time"
)

// Repository is the record store behind the job service. Implementations
// must keep their facet indexes consistent on every mutation.
type Repository interface {
	// Insert stores a new job, assigning its ID when empty, and returns the
	// stored record.
	Insert(ctx context.Context, job *Job) (*Job, error)

	// Get returns the job with the given ID or a not_found error.
	Get(ctx context.Context, id string) (*Job, error)

	// Update applies patch to the job with the given ID, stamping UpdatedAt
	// with at, and returns the new state. Missing IDs yield not_found.
	Update(ctx context.Context, id string, patch Patch, at time.Time) (*Job, error)

	// Delete removes the job and returns its final state. Missing IDs yield
	// not_found.
	Delete(ctx context.Context, id string) (*Job, error)

	// Query returns every job satisfying all facets of f, newest first.
	Query(ctx context.Context, f Filter) ([]*Job, error)
}
