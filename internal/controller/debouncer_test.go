package controller_test

import (
	"sync"
	"testing"
	"time"

	"catalog-cli/internal/controller"
)

type fireLog struct {
	mu   sync.Mutex
	seqs []uint64
}

func (f *fireLog) fire(seq uint64) {
	f.mu.Lock()
	f.seqs = append(f.seqs, seq)
	f.mu.Unlock()
}

func (f *fireLog) get() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.seqs...)
}

func TestDebouncerFiresOnceAfterBurst(t *testing.T) {
	t.Parallel()

	var log fireLog
	d := controller.NewDebouncer(30*time.Millisecond, log.fire)
	defer d.Stop()

	var last uint64
	for i := 0; i < 5; i++ {
		last = d.Notify()
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)

	got := log.get()
	if len(got) != 1 || got[0] != last {
		t.Fatalf("expected one fire with seq %d; got %v", last, got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	t.Parallel()

	var log fireLog
	d := controller.NewDebouncer(20*time.Millisecond, log.fire)
	defer d.Stop()

	d.Notify()
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	if got := log.get(); len(got) != 0 {
		t.Fatalf("expected no fire after cancel; got %v", got)
	}

	seq := d.Notify()
	time.Sleep(60 * time.Millisecond)
	if got := log.get(); len(got) != 1 || got[0] != seq {
		t.Fatalf("expected re-armed fire with seq %d; got %v", seq, got)
	}
}

func TestDebouncerStop(t *testing.T) {
	t.Parallel()

	var log fireLog
	d := controller.NewDebouncer(10*time.Millisecond, log.fire)
	d.Notify()
	d.Stop()
	d.Notify()
	time.Sleep(40 * time.Millisecond)
	if got := log.get(); len(got) != 0 {
		t.Fatalf("expected no fire after stop; got %v", got)
	}

	var nilDeb *controller.Debouncer
	nilDeb.Notify()
	nilDeb.Cancel()
	nilDeb.Stop()
}
