package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"gocloud.dev/pubsub"
)

// Pipeline feeds each parsed log entry through both detectors and publishes
// any resulting alert events onto the alerter task queue. It runs entirely
// on the tailer's goroutine; detector state has a single writer.
type Pipeline struct {
	errorRate *ErrorRateDetector
	failover  *FailoverDetector
	producer  *pubsub.Topic
	dataset   *Dataset
}

type PipelineOptions struct {
	ErrorRate *ErrorRateDetector
	Failover  *FailoverDetector
	Producer  *pubsub.Topic
	Dataset   *Dataset
}

func NewPipeline(options PipelineOptions) *Pipeline {
	return &Pipeline{
		errorRate: options.ErrorRate,
		failover:  options.Failover,
		producer:  options.Producer,
		dataset:   options.Dataset,
	}
}

// HandleLine processes one raw log line. No fault escapes the pipeline:
// unparsable lines are skipped, storage and publish failures are logged
// and dropped.
func (p *Pipeline) HandleLine(ctx context.Context, line string) {
	entry, ok := ParseLogEntry(line)
	if !ok {
		return
	}

	if p.dataset != nil {
		if err := p.dataset.InsertObservation(ctx, entry, p.errorRate.IsError(entry)); err != nil {
			slog.ErrorContext(ctx, "recording observation", slog.String("error", err.Error()))
		}
	}

	if event := p.errorRate.RecordAndCheck(entry); event != nil {
		p.publish(ctx, *event)
	}
	if event := p.failover.Observe(entry); event != nil {
		p.publish(ctx, *event)
	}
}

func (p *Pipeline) publish(ctx context.Context, event AlertEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "marshaling alert event", slog.String("alert_type", event.Type), slog.String("error", err.Error()))
		return
	}

	err = p.producer.Send(ctx, &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			"alert_type": event.Type,
		},
	})
	if err != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(fmt.Errorf("publishing %s alert event: %w", event.Type, err))
		}
		slog.ErrorContext(ctx, "publishing alert event", slog.String("alert_type", event.Type), slog.String("error", err.Error()))
	}
}
