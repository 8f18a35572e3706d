// Package mutation describes how an optimistic local change ended up after its
// remote write.
package mutation

import "fmt"

// Outcome of a mutation.
type Outcome int

const (
	// Committed means the remote write succeeded and local state matches it.
	Committed Outcome = iota
	// LocalOnly means the write failed but the optimistic local change was kept.
	LocalOnly
	// Reverted means the write failed and local state was reloaded from the store.
	Reverted
	// Unchanged means the write failed before anything was applied locally.
	Unchanged
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case LocalOnly:
		return "local-only"
	case Reverted:
		return "reverted"
	case Unchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result pairs an Outcome with the remote error, if any.
type Result struct {
	Outcome Outcome
	Err     error
}

// OK returns a Committed result.
func OK() Result {
	return Result{Outcome: Committed}
}

// Failed returns a result with the given outcome and error.
func Failed(o Outcome, err error) Result {
	return Result{Outcome: o, Err: err}
}

// Committed reports whether the remote write succeeded.
func (r Result) Committed() bool {
	return r.Outcome == Committed && r.Err == nil
}

// Diverged reports whether local state no longer matches the store.
func (r Result) Diverged() bool {
	return r.Outcome == LocalOnly
}

// String renders the result for status lines.
func (r Result) String() string {
	if r.Err == nil {
		return r.Outcome.String()
	}
	return fmt.Sprintf("%s: %v", r.Outcome, r.Err)
}
