package main

import "time"

const (
	AlertTypeErrorRate = "error_rate"
	AlertTypeFailover  = "failover"
	AlertTypeRecovery  = "recovery"
)

// AlertEvent is the message the detection pipeline publishes onto the
// alerter task queue.
type AlertEvent struct {
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	Pool         string    `json:"pool,omitempty"`
	PreviousPool string    `json:"previous_pool,omitempty"`
	Release      string    `json:"release,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
