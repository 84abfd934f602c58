package window

import (
	"math/rand/v2"
	"sync/atomic"
)

// Window is the shared trailing window over order keys. A single producer
// (the insert worker) moves the leading edge with Advance, many consumers
// draw keys from the active range [cursor-width, cursor) with Sample.
//
// The cursor is a plain atomic: exactly one writer, so no CAS is needed,
// and readers tolerate a slightly stale value. If no producer ever calls
// Advance the window stays frozen at the starting point.
type Window struct {
	cursor atomic.Int64
	width  int64
}

func New(width, start int64) *Window {
	if width <= 0 {
		panic("window: width must be positive")
	}
	w := &Window{width: width}
	w.cursor.Store(start)
	return w
}

// Sample returns a key drawn uniformly from the active window. Keys near
// the leading edge may not have been inserted yet; callers are expected to
// handle keys with no data. If the cursor is below the width the result can
// be negative, which is a configuration problem, not guarded here.
func (w *Window) Sample() int64 {
	return rand.Int64N(w.width) + (w.cursor.Load() - w.width)
}

// Advance moves the leading edge of the window to cursor. Only one
// goroutine may call Advance; this is enforced by configuration validation,
// not by the type.
func (w *Window) Advance(cursor int64) {
	w.cursor.Store(cursor)
}

// Cursor returns the current leading edge.
func (w *Window) Cursor() int64 {
	return w.cursor.Load()
}

// Width returns the configured window width.
func (w *Window) Width() int64 {
	return w.width
}
