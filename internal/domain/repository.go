package domain

import (
	"context"
)

// AccidentSource defines where accident records are read from.
// This follows the Dependency Inversion Principle - domain defines the interface
type AccidentSource interface {
	// Identity returns a stable key for the current source content.
	// It changes whenever the underlying data changes.
	Identity(ctx context.Context) (string, error)

	// LoadAccidents reads every record with its column set.
	// Calendar fields are derived by the caller.
	LoadAccidents(ctx context.Context) (*Table, error)

	// Health checks that the source is reachable
	Health(ctx context.Context) error
}
