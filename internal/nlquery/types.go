// Package nlquery turns a free-text trace question into a search filter set.
//
// FLOW:
//  1. Orchestrator builds the prompt for the question
//  2. Gateway returns the model's raw reply text
//  3. Extract recovers and normalizes a StructuredQuery from the text
//  4. Compile deterministically renders the FilterSet for the trace search
//
// Malformed or partial model output always degrades to a classified error;
// it never reaches the compiler.
package nlquery

// Status restricts results by span outcome.
type Status string

const (
	StatusError   Status = "error"
	StatusSuccess Status = "success"
	StatusAll     Status = "all"
)

// StructuredQuery is the normalized representation of the model's parsed
// intent. Optional fields are either absent (zero value) or non-empty —
// empty strings and empty maps are normalized away at extraction time.
type StructuredQuery struct {
	Service          string
	Operation        string
	MinDuration      string
	MaxDuration      string
	Tags             map[string]string
	Status           Status
	OriginalQuestion string
}

// FilterSet is the compiled, search-service-ready parameter mapping.
// Keys: service, operation, minDuration, maxDuration, tags.
type FilterSet map[string]string
