package draft

import "sync/atomic"

// Gate lets one action run at a time. A trigger that arrives while another
// is in flight is dropped, not queued.
type Gate struct {
	busy atomic.Bool
}

// TryRun runs fn unless another call is in flight. It reports whether fn ran.
func (g *Gate) TryRun(fn func()) bool {
	if !g.busy.CompareAndSwap(false, true) {
		return false
	}
	defer g.busy.Store(false)
	fn()
	return true
}

// Acquire marks the gate busy for work that finishes asynchronously. The
// caller must call Release exactly once when Acquire returns true.
func (g *Gate) Acquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release frees the gate.
func (g *Gate) Release() {
	g.busy.Store(false)
}

// Busy reports whether an action is in flight.
func (g *Gate) Busy() bool {
	return g.busy.Load()
}
