package task

import "time"

// Target is one concrete (environment, path) combination of a plan.
type Target struct {
	// Index is the position of the target in its plan.
	Index       int
	Environment string
	URL         string
}

// Result is the outcome of requesting a single Target.
//
// The engine fills in the transport fields; Classify then decides Passed and
// ErrorMessage exactly once.
type Result struct {
	Environment string
	URL         string
	// StatusCode is nil when no HTTP response was received.
	StatusCode *int
	// Body is the full response body used for classification; reports use Preview.
	Body         string
	Preview      string
	Passed       bool
	ErrorMessage *string
	Duration     time.Duration
	// State is the value of the URL's state query parameter, nil when absent.
	State *string
}

// ErrorPolicy controls the application-level check on 2xx responses.
type ErrorPolicy struct {
	// Key is the top-level JSON key to inspect.
	Key string
	// Value is the value that marks an application error. Nil disables the
	// check; a pointer to "" matches an empty string literally.
	Value *string
}

// Enabled reports whether the application-level check is active.
func (p ErrorPolicy) Enabled() bool {
	return p.Value != nil
}
