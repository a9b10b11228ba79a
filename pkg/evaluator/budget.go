package evaluator

// Budget holds the resource limits for one run. Zero fields are unlimited.
type Budget struct {
	// TimeMs bounds the wall-clock time of a run. The interpreter sees it
	// only as a context deadline; callers apply it with context.WithTimeout.
	TimeMs int64
	// MaxIterations bounds the number of loop bodies executed per run.
	MaxIterations int64
}

// budgetTracker tracks consumption against a Budget during a run.
type budgetTracker struct {
	Iterations int64
}
