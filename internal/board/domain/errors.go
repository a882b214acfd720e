package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUpdateInFlight is returned when a metadata mutation is requested
	// while another one is still running. Callers drop the request; it is
	// never queued.
	ErrUpdateInFlight = errors.New("another update is in flight")

	ErrJobNotFound = errors.New("job not found")

	ErrNoJobsToExport = errors.New("no jobs to export in current filter")
)

// TransportError reports a non-2xx HTTP response or a response body that is
// not the JSON shape the caller expected.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError reports a request that exceeded its client-side deadline.
// It is distinct from TransportError so callers can tell "server said no"
// from "server never answered".
type TimeoutError struct {
	Op      string
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s", e.Op, e.Timeout)
}

// BatchError reports a failed batch inside a multi-batch export. Batch is
// 1-based. The whole export aborts; no partial data is returned.
type BatchError struct {
	Batch int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("export batch %d failed: %v", e.Batch, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
