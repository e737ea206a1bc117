// Package metrics defines observability hooks for repository operations.
package metrics

import "time"

// ResultLabel enumerates operation result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultNotFound ResultLabel = "not_found"
	ResultConflict ResultLabel = "conflict"
	ResultInvalid  ResultLabel = "invalid"
	ResultError    ResultLabel = "error"
)

// Recorder receives one observation per repository operation.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveOperation(op string, d time.Duration, result ResultLabel)
	SetRecipeCount(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveOperation(string, time.Duration, ResultLabel) {}
func (NoopRecorder) SetRecipeCount(int)                                  {}
