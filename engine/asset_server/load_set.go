package asset_server

import (
	"errors"
	"slices"
)

// ErrRegisterClosed is returned when a handle is registered after the loading phase has completed.
var ErrRegisterClosed = errors.New("load set is closed to new handles")

// LoadSet tracks the handles a loading phase waits on.
// It belongs to the simulation thread and is not safe for concurrent use.
type LoadSet struct {
	handles []Handle
	closed  bool
}

// NewLoadSet creates an empty, open LoadSet.
func NewLoadSet() *LoadSet {
	return &LoadSet{}
}

// Register adds a handle to the set.
//
// Parameters:
//   - h: the handle to track
//
// Returns:
//   - error: ErrRegisterClosed once Close has been called
func (s *LoadSet) Register(h Handle) error {
	if s.closed {
		return ErrRegisterClosed
	}
	if !slices.Contains(s.handles, h) {
		s.handles = append(s.handles, h)
	}
	return nil
}

// Close ends registration. The owning phase calls it when it completes.
func (s *LoadSet) Close() {
	s.closed = true
}

// Len returns the number of tracked handles.
func (s *LoadSet) Len() int {
	return len(s.handles)
}

// AggregateStatus combines the status of every tracked handle. It never blocks.
// A failure wins over pending handles, so the result does not depend on the order loads complete in.
// An empty set is loaded.
//
// Parameters:
//   - q: the per-handle status source
//
// Returns:
//   - LoadStatus: StatusFailed if any handle failed, else StatusPending if any is unresolved, else StatusLoaded
func (s *LoadSet) AggregateStatus(q StatusQuery) LoadStatus {
	pending := false
	for _, h := range s.handles {
		switch q.Status(h) {
		case StatusFailed:
			return StatusFailed
		case StatusPending:
			pending = true
		}
	}
	if pending {
		return StatusPending
	}
	return StatusLoaded
}

// Failed returns the tracked handles whose load failed, in registration order.
//
// Parameters:
//   - q: the per-handle status source
//
// Returns:
//   - []Handle: the failed handles
func (s *LoadSet) Failed(q StatusQuery) []Handle {
	var out []Handle
	for _, h := range s.handles {
		if q.Status(h) == StatusFailed {
			out = append(out, h)
		}
	}
	return out
}
