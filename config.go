package main

import "log/slog"

type WatcherConfig struct {
	WebhookURL          string  `yaml:"webhook_url" envconfig:"SLACK_WEBHOOK_URL"`
	LogPath             string  `yaml:"log_path" default:"/var/log/nginx/app_access.log" envconfig:"LOG_PATH"`
	ErrorWindow         int     `yaml:"error_window" default:"200" envconfig:"ALERT_ERROR_WINDOW"`
	ErrorThreshold      float64 `yaml:"error_threshold" default:"0.02" envconfig:"ALERT_ERROR_THRESHOLD"`
	CooldownSeconds     int     `yaml:"cooldown_seconds" default:"300" envconfig:"ALERT_COOLDOWN_SECONDS"`
	PrimaryPool         string  `yaml:"primary_pool" envconfig:"PRIMARY_POOL"`
	MaintenanceFlagFile string  `yaml:"maintenance_flag_file" envconfig:"MAINTENANCE_FLAG_FILE"`
	Server              struct {
		Host string `yaml:"host" envconfig:"SERVER_HOST"`
		Port int    `yaml:"port" default:"8625" envconfig:"SERVER_PORT"`

		LogLevel slog.Level `yaml:"log_level" envconfig:"LOG_LEVEL"`
	} `yaml:"server"`
	TaskQueue struct {
		Alerter struct {
			ProducerAddress string `yaml:"producer_address" default:"mem://alerter_tasks" envconfig:"ALERTER_PRODUCER_ADDRESS"`
			ConsumerAddress string `yaml:"consumer_address" default:"mem://alerter_tasks" envconfig:"ALERTER_CONSUMER_ADDRESS"`
		} `yaml:"alerter"`
	} `yaml:"task_queue"`
	Sentry struct {
		Dsn                   string  `yaml:"dsn" envconfig:"SENTRY_DSN"`
		ErrorSampleRate       float64 `yaml:"error_sample_rate" default:"1.0" envconfig:"SENTRY_ERROR_SAMPLE_RATE"`
		TracesSampleRate      float64 `yaml:"traces_sample_rate" default:"1.0" envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
		Debug                 bool    `yaml:"debug" default:"false" envconfig:"SENTRY_DEBUG"`
		TraceOutgoingRequests bool    `yaml:"trace_outgoing_requests" default:"false" envconfig:"SENTRY_TRACE_OUTGOING_REQUESTS"`
	} `yaml:"sentry"`
}
