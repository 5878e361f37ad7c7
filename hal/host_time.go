//go:build !tinygo

package hal

import "time"

// hostTime publishes one tick per elapsed millisecond. The tick value is the
// millisecond count since the first advance, so consumers can derive uptime
// even when the channel overflows and ticks are dropped.
type hostTime struct {
	ch  chan uint64
	seq uint64
	now func() time.Time

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// advance is called once per host frame.
func (t *hostTime) advance() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.emit(1)
		return
	}
	t.acc += now.Sub(t.last)
	t.last = now

	n := uint64(t.acc / time.Millisecond)
	if n == 0 {
		return
	}
	t.acc %= time.Millisecond
	t.emit(n)
}

func (t *hostTime) emit(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
