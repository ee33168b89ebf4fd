// Package trigger schedules scans over the lifetime of a page: once at
// start, at fixed delays afterwards to catch late content, and after every
// burst of change notifications.
package trigger

import (
	"context"
	"sort"
	"time"
)

const (
	// DefaultDebounce batches a burst of change notifications into one scan.
	DefaultDebounce = 500 * time.Millisecond
)

// DefaultDelays are the one-shot re-scans after start.
var DefaultDelays = []time.Duration{1 * time.Second, 3 * time.Second}

// Reason tells a scan callback what caused it.
type Reason int

const (
	Initial Reason = iota
	Delayed
	Changed
)

func (r Reason) String() string {
	switch r {
	case Initial:
		return "initial"
	case Delayed:
		return "delayed"
	case Changed:
		return "changed"
	}
	return "unknown"
}

// Lifecycle drives Scan. All calls to Scan happen on the goroutine running
// Run, one at a time, so Scan needs no locking.
type Lifecycle struct {
	Scan func(Reason)
	// Delays are measured from the start of Run. Nil means DefaultDelays; an
	// empty non-nil slice disables delayed scans.
	Delays []time.Duration
	// Debounce is the wait between the first notification of a burst and the
	// scan that covers it. Zero means DefaultDebounce.
	Debounce time.Duration
}

// Run performs the initial scan and then serves timers and notifications.
// It returns when ctx is done, or once changes is closed (or nil) and every
// pending delayed or debounced scan has fired.
//
// Notifications arriving while a debounced scan is pending join it; they do
// not push it back, so a steady stream of changes still gets scanned.
func (l *Lifecycle) Run(ctx context.Context, changes <-chan struct{}) {
	scan := l.Scan
	if scan == nil {
		scan = func(Reason) {}
	}
	debounce := l.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	delays := l.Delays
	if delays == nil {
		delays = DefaultDelays
	}
	delays = append([]time.Duration(nil), delays...)
	sort.Slice(delays, func(i, j int) bool { return delays[i] < delays[j] })

	start := time.Now()
	scan(Initial)

	var (
		delayTimer *time.Timer
		delayC     <-chan time.Time
		next       int
	)
	armDelay := func() {
		if next >= len(delays) {
			delayC = nil
			return
		}
		wait := delays[next] - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		if delayTimer == nil {
			delayTimer = time.NewTimer(wait)
		} else {
			delayTimer.Reset(wait)
		}
		delayC = delayTimer.C
	}
	armDelay()

	var (
		debounceTimer *time.Timer
		debounceC     <-chan time.Time
	)
	defer func() {
		if delayTimer != nil {
			delayTimer.Stop()
		}
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		if changes == nil && delayC == nil && debounceC == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-delayC:
			next++
			scan(Delayed)
			armDelay()
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if debounceC != nil {
				continue
			}
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(debounce)
			} else {
				debounceTimer.Reset(debounce)
			}
			debounceC = debounceTimer.C
		case <-debounceC:
			debounceC = nil
			scan(Changed)
		}
	}
}
