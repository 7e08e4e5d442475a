package formkit

import (
	"maps"

	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Snapshot is a capture of field values keyed by field name.
type Snapshot map[string]any

// Clone returns a copy whose values are detached from s.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = validator.Clone(v)
	}
	return out
}

// Equal reports whether both snapshots hold the same values for the same names.
func (s Snapshot) Equal(other Snapshot) bool {
	return maps.EqualFunc(s, other, validator.Equal)
}

// SnapshotStack is a LIFO of snapshots used for step navigation.
// It is not safe for concurrent use; Form guards it with its own lock.
type SnapshotStack struct {
	frames []Snapshot
}

// Push stores a detached copy of s on top of the stack.
func (st *SnapshotStack) Push(s Snapshot) {
	st.frames = append(st.frames, s.Clone())
}

// Pop removes and returns the top snapshot. ok is false on an empty stack.
func (st *SnapshotStack) Pop() (s Snapshot, ok bool) {
	n := len(st.frames)
	if n == 0 {
		return nil, false
	}
	s = st.frames[n-1]
	st.frames[n-1] = nil
	st.frames = st.frames[:n-1]
	return s, true
}

// Peek returns a copy of the top snapshot without removing it.
func (st *SnapshotStack) Peek() (Snapshot, bool) {
	if len(st.frames) == 0 {
		return nil, false
	}
	return st.frames[len(st.frames)-1].Clone(), true
}

// Depth is the number of stored snapshots.
func (st *SnapshotStack) Depth() int {
	return len(st.frames)
}

// Frames returns copies of all snapshots, bottom first.
func (st *SnapshotStack) Frames() []Snapshot {
	out := make([]Snapshot, len(st.frames))
	for i, f := range st.frames {
		out[i] = f.Clone()
	}
	return out
}

// Replace swaps the whole stack for copies of frames.
func (st *SnapshotStack) Replace(frames []Snapshot) {
	st.frames = make([]Snapshot, len(frames))
	for i, f := range frames {
		st.frames[i] = f.Clone()
	}
}

// Clear drops every snapshot.
func (st *SnapshotStack) Clear() {
	st.frames = nil
}
