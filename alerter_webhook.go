package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const webhookTimeout = 5 * time.Second

type WebhookAlerter struct {
	webhookURL string
	httpClient *http.Client
}

func NewWebhookAlerter(webhookURL string, httpClient *http.Client) *WebhookAlerter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: webhookTimeout}
	}
	return &WebhookAlerter{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

type webhookRequestPayload struct {
	Text string `json:"text"`
}

func (w *WebhookAlerter) Send(ctx context.Context, event AlertEvent) error {
	if w.webhookURL == "" {
		return ErrAlerterNotConfigured
	}

	requestBody, err := json.Marshal(webhookRequestPayload{
		Text: fmt.Sprintf(":rotating_light: %s", event.Message),
	})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(requestBody))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", "poolwatch-webhook/1.0")

	response, err := w.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer func() {
		if response.Body != nil {
			_ = response.Body.Close()
		}
	}()
	if response.StatusCode == http.StatusTooManyRequests {
		return ErrAlerterRateLimited
	}
	if response.StatusCode >= http.StatusBadRequest {
		responseBody, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		return fmt.Errorf("%w: webhook returned %d: %s", ErrAlerterDropped, response.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	return nil
}
