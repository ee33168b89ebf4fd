package trigger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu      sync.Mutex
	reasons []Reason
}

func (l *recorder) record(r Reason) {
	l.mu.Lock()
	l.reasons = append(l.reasons, r)
	l.mu.Unlock()
}

func (l *recorder) snapshot() []Reason {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Reason(nil), l.reasons...)
}

func TestRun_InitialAndDelayed(t *testing.T) {
	var got recorder
	lc := Lifecycle{Scan: got.record, Delays: []time.Duration{30 * time.Millisecond, 10 * time.Millisecond}}
	done := make(chan struct{})
	go func() {
		lc.Run(context.Background(), nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after the last delayed scan")
	}
	if diff := cmp.Diff([]Reason{Initial, Delayed, Delayed}, got.snapshot()); diff != "" {
		t.Fatalf("scan reasons (-want +got):\n%s", diff)
	}
}

func TestRun_BurstIsCoalesced(t *testing.T) {
	var got recorder
	changes := make(chan struct{})
	lc := Lifecycle{Scan: got.record, Delays: []time.Duration{}, Debounce: 40 * time.Millisecond}
	done := make(chan struct{})
	go func() {
		lc.Run(context.Background(), changes)
		close(done)
	}()
	for i := 0; i < 5; i++ {
		changes <- struct{}{}
	}
	close(changes)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after changes closed")
	}
	if diff := cmp.Diff([]Reason{Initial, Changed}, got.snapshot()); diff != "" {
		t.Fatalf("scan reasons (-want +got):\n%s", diff)
	}
}

func TestRun_SeparateBursts(t *testing.T) {
	var got recorder
	changes := make(chan struct{})
	lc := Lifecycle{Scan: got.record, Delays: []time.Duration{}, Debounce: 10 * time.Millisecond}
	done := make(chan struct{})
	go func() {
		lc.Run(context.Background(), changes)
		close(done)
	}()
	waitFor := func(n int) {
		deadline := time.Now().Add(2 * time.Second)
		for len(got.snapshot()) < n {
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for %d scans, have %v", n, got.snapshot())
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
	changes <- struct{}{}
	waitFor(2)
	changes <- struct{}{}
	waitFor(3)
	close(changes)
	<-done
	if diff := cmp.Diff([]Reason{Initial, Changed, Changed}, got.snapshot()); diff != "" {
		t.Fatalf("scan reasons (-want +got):\n%s", diff)
	}
}

func TestRun_CancelStopsPendingTimers(t *testing.T) {
	var got recorder
	ctx, cancel := context.WithCancel(context.Background())
	lc := Lifecycle{Scan: got.record, Delays: []time.Duration{time.Hour}}
	done := make(chan struct{})
	go func() {
		lc.Run(ctx, make(chan struct{}))
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run ignored cancellation")
	}
	if diff := cmp.Diff([]Reason{Initial}, got.snapshot()); diff != "" {
		t.Fatalf("scan reasons (-want +got):\n%s", diff)
	}
}

func TestRun_DefaultsAndNilScan(t *testing.T) {
	lc := Lifecycle{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lc.Run(ctx, nil)
}

func TestReason_String(t *testing.T) {
	if Initial.String() != "initial" || Delayed.String() != "delayed" || Changed.String() != "changed" {
		t.Fatalf("unexpected reason names")
	}
	if Reason(42).String() != "unknown" {
		t.Fatalf("unexpected name for out-of-range reason")
	}
}
