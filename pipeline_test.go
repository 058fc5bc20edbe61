package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub"
)

func TestPipeline_HandleLine(t *testing.T) {
	ctx := context.Background()

	topic, err := pubsub.OpenTopic(ctx, "mem://pipeline_test")
	if err != nil {
		t.Fatalf("opening topic: %v", err)
	}
	defer topic.Shutdown(ctx)

	subscription, err := pubsub.OpenSubscription(ctx, "mem://pipeline_test")
	if err != nil {
		t.Fatalf("opening subscription: %v", err)
	}
	defer subscription.Shutdown(ctx)

	pipeline := NewPipeline(PipelineOptions{
		ErrorRate: NewErrorRateDetector(2, 0.5),
		Failover:  NewFailoverDetector("blue"),
		Producer:  topic,
		Dataset:   NewDataset(db),
	})

	receive := func(t *testing.T) AlertEvent {
		t.Helper()
		receiveCtx, receiveCancel := context.WithTimeout(ctx, 5*time.Second)
		defer receiveCancel()
		message, err := subscription.Receive(receiveCtx)
		if err != nil {
			t.Fatalf("receiving alert event: %v", err)
		}
		var event AlertEvent
		if err := json.Unmarshal(message.Body, &event); err != nil {
			t.Fatalf("unmarshaling alert event: %v", err)
		}
		if message.Metadata["alert_type"] != event.Type {
			t.Errorf("expected alert_type metadata %q, got %q", event.Type, message.Metadata["alert_type"])
		}
		message.Ack()
		return event
	}

	// Blank and unparsable lines are skipped without any effect.
	pipeline.HandleLine(ctx, "   \n")
	pipeline.HandleLine(ctx, "not json at all\n")

	// First qualifying observation establishes the pool baseline; with a
	// two-entry window the second line fills it at a 50% error rate.
	pipeline.HandleLine(ctx, `{"status": 200, "pool": "green", "release": "v1"}`)
	pipeline.HandleLine(ctx, `{"status": 502, "upstream_status": "502, 200"}`)

	event := receive(t)
	if event.Type != AlertTypeErrorRate {
		t.Errorf("expected an %s event, got %q", AlertTypeErrorRate, event.Type)
	}

	// A healthy entry from the primary pool rides the same queue as a
	// recovery event.
	pipeline.HandleLine(ctx, `{"status": 200, "pool": "Blue", "release": "v2"}`)

	event = receive(t)
	if event.Type != AlertTypeRecovery {
		t.Errorf("expected a %s event, got %q", AlertTypeRecovery, event.Type)
	}
	if event.PreviousPool != "green" || event.Pool != "blue" {
		t.Errorf("expected green -> blue, got %q -> %q", event.PreviousPool, event.Pool)
	}
}
