package controller

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Notify calls into one fire after a quiet window.
// One timer is shared by every caller, so a notify from any field resets it.
//
// fire runs on the timer goroutine and receives the sequence number of the latest
// Notify; callers compare it with the value Notify returned to detect cancelled or
// superseded fires.
type Debouncer struct {
	quiet time.Duration
	fire  func(seq uint64)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

func NewDebouncer(quiet time.Duration, fire func(seq uint64)) *Debouncer {
	if quiet <= 0 {
		quiet = 300 * time.Millisecond
	}
	return &Debouncer{quiet: quiet, fire: fire}
}

// Notify (re)arms the timer and returns the sequence the next fire will carry.
func (d *Debouncer) Notify() uint64 {
	if d == nil {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return d.seq
	}
	d.seq++
	if d.timer == nil {
		d.timer = time.AfterFunc(d.quiet, d.onTimer)
		return d.seq
	}
	d.timer.Reset(d.quiet)
	return d.seq
}

// Cancel drops a pending fire. A fire already running on the timer goroutine
// carries a sequence older than any later Notify.
func (d *Debouncer) Cancel() {
	if d == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Stop cancels the timer for good; later Notify calls are ignored.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) onTimer() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	seq := d.seq
	d.mu.Unlock()

	d.fire(seq)
}
