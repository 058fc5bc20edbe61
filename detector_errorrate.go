package main

import (
	"fmt"
	"time"
)

// ErrorRateDetector keeps a fixed-size rolling window of binary error
// observations and fires an edge-triggered alert when the error rate over
// the full window crosses the configured threshold.
type ErrorRateDetector struct {
	threshold float64
	window    []int
	next      int
	filled    int
	sum       int
	active    bool
}

func NewErrorRateDetector(windowSize int, threshold float64) *ErrorRateDetector {
	if windowSize <= 0 {
		windowSize = 1
	}
	return &ErrorRateDetector{
		threshold: threshold,
		window:    make([]int, windowSize),
	}
}

// IsError classifies one entry. The first parseable token of
// upstream_status wins (the first hop's status is authoritative); the
// top-level status is the fallback. Anything unresolvable is a non-error:
// absence of evidence is not evidence of error.
func (d *ErrorRateDetector) IsError(entry LogEntry) bool {
	code, ok := firstStatus(entry["upstream_status"])
	if !ok {
		code, ok = firstStatus(entry["status"])
	}
	if !ok {
		return false
	}
	return code >= 500
}

// RecordAndCheck appends the entry's error observation to the window and,
// once the window has filled, evaluates the rate on every call. Returns an
// event only on the transition into the alerting condition; dropping below
// the threshold clears the active flag silently.
func (d *ErrorRateDetector) RecordAndCheck(entry LogEntry) *AlertEvent {
	observation := 0
	if d.IsError(entry) {
		observation = 1
	}

	d.sum += observation - d.window[d.next]
	d.window[d.next] = observation
	d.next = (d.next + 1) % len(d.window)
	if d.filled < len(d.window) {
		d.filled++
	}

	// No rate decision until the window fills once after startup.
	if d.filled < len(d.window) {
		return nil
	}

	rate := float64(d.sum) / float64(len(d.window))
	if rate < d.threshold {
		d.active = false
		return nil
	}
	if d.active {
		return nil
	}

	d.active = true
	return &AlertEvent{
		Type:       AlertTypeErrorRate,
		Message:    fmt.Sprintf("High upstream error rate detected: %.2f%% over last %d requests.", rate*100, len(d.window)),
		OccurredAt: time.Now().UTC(),
	}
}
