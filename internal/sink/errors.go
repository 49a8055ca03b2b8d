package sink

import "fmt"

// SinkError reports a store or filesystem write failure. It is the one
// error category that aborts a pipeline run, so the underlying cause is
// kept reachable for diagnostics.
type SinkError struct {
	Op  string
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Op, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
