// Package gateway provides the resilient fetch mechanism: upstream calls
// either succeed, affirmatively report absence, or are replaced by a
// degraded substitute value instead of surfacing the failure.
package gateway

// Status classifies the outcome of a resilient fetch.
type Status int

const (
	// StatusOK means the upstream call succeeded and Value is authoritative.
	StatusOK Status = iota
	// StatusNotFound means the upstream affirmatively reported absence.
	StatusNotFound
	// StatusDegraded means the upstream call failed and Value is a
	// structurally valid substitute, not authoritative data.
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of a fetch. Callers branch on Status rather
// than on error values, so the hard-fail versus soft-degrade policy is
// declared at the call site instead of hidden in catch-style control flow.
type Result[T any] struct {
	Status Status
	Value  T
	// Note explains degraded provenance so callers can distinguish
	// "provider said no data" from "provider was unreachable".
	Note string
}

// Ok reports whether the result carries authoritative data.
func (r Result[T]) Ok() bool {
	return r.Status == StatusOK
}

// Degraded reports whether the result is a fallback substitute.
func (r Result[T]) Degraded() bool {
	return r.Status == StatusDegraded
}
