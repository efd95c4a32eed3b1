package operations

import "context"

// Stage is one step of the pipeline. Stages communicate through the shared
// run state: Validate checks that the artifacts a stage needs are present,
// Execute computes the stage's own artifacts.
type Stage interface {
	// ID returns the unique identifier for this stage
	ID() string

	// Name returns the human-readable name for this stage
	Name() string

	// Validate checks whether the stage can run against the current state
	Validate(state *State) error

	// Execute runs the stage
	Execute(ctx context.Context, state *State) error
}
