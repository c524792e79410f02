package engine

import (
	"context"
)

// MutationPlanner previews mutations. Plan never contacts the server; it
// reports the write a confirmed run would attempt.
type MutationPlanner interface {
	Plan(ctx context.Context, req Request) (Outcome, error)
}

// MutationExecutor runs the full pipeline for one record: locate the
// parent, resolve references, check for a live duplicate, write, and
// invalidate cached reads for the parent scope. Unconfirmed requests are
// answered with the plan instead.
type MutationExecutor interface {
	Execute(ctx context.Context, req Request) (Outcome, error)
}

type Engine interface {
	MutationPlanner
	MutationExecutor
}
