// Package history is the bounded undo stack of configuration snapshots.
package history

import "shotframe/internal/frame"

// Limit is the number of snapshots kept. Older ones are evicted first.
const Limit = 20

// Undo holds pre-edit snapshots. Record before every configuration edit and
// Pop to walk back one edit at a time.
type Undo struct {
	stack []frame.Config
	limit int
}

func New() *Undo {
	return &Undo{limit: Limit}
}

func (u *Undo) Record(snapshot frame.Config) {
	u.stack = append(u.stack, snapshot)
	if len(u.stack) > u.limit {
		u.stack = append(u.stack[:0], u.stack[len(u.stack)-u.limit:]...)
	}
}

// Pop removes and returns the most recent snapshot. ok is false when there
// is nothing to undo.
func (u *Undo) Pop() (frame.Config, bool) {
	if len(u.stack) == 0 {
		return frame.Config{}, false
	}
	last := len(u.stack) - 1
	snapshot := u.stack[last]
	u.stack = u.stack[:last]
	return snapshot, true
}

func (u *Undo) Len() int { return len(u.stack) }

// Snapshots returns the stack oldest first.
func (u *Undo) Snapshots() []frame.Config {
	out := make([]frame.Config, len(u.stack))
	copy(out, u.stack)
	return out
}
