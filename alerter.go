package main

import (
	"context"
	"errors"
)

// ErrAlerterNotConfigured is returned when an alert send is attempted but
// the alerter has no delivery target configured.
var ErrAlerterNotConfigured = errors.New("alerter not configured")

// ErrAlerterRateLimited is returned when the downstream delivery endpoint
// rejected the alert because the sender is being rate limited.
var ErrAlerterRateLimited = errors.New("alerter rate limited")

// ErrAlerterDropped is returned when an alert message cannot be successfully
// delivered, for example when the webhook endpoint returns an error-class
// HTTP response. Delivery is fire-once; a dropped alert is never retried.
var ErrAlerterDropped = errors.New("alerter message dropped")

// Alerter defines an interface for delivering alert notifications.
// Implementations handle the delivery of one alert event through a
// specific channel (e.g., a Slack-compatible webhook).
type Alerter interface {
	// Send delivers the given alert event. The context ctx bounds the
	// request lifetime; exceeding it is a transport failure, not a crash.
	Send(ctx context.Context, event AlertEvent) error
}
