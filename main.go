package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/marcboeker/go-duckdb/v2"
	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/kafkapubsub"
	_ "gocloud.dev/pubsub/mempubsub"
	_ "gocloud.dev/pubsub/natspubsub"
	_ "gocloud.dev/pubsub/rabbitpubsub"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	_ = godotenv.Load()

	var config WatcherConfig
	if err := envconfig.Process("", &config); err != nil {
		slog.Error("processing environment configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	configFile, err := os.ReadFile(*configPath)
	if err == nil {
		if err := yaml.Unmarshal(configFile, &config); err != nil {
			slog.Error("failed to unmarshal config file", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		slog.Error("failed to read config file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.Server.LogLevel})))

	config.WebhookURL = strings.TrimSpace(config.WebhookURL)
	if config.WebhookURL == "" {
		slog.Error("SLACK_WEBHOOK_URL is required")
		os.Exit(1)
	}

	if config.Sentry.Dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              config.Sentry.Dsn,
			SampleRate:       config.Sentry.ErrorSampleRate,
			TracesSampleRate: config.Sentry.TracesSampleRate,
			Debug:            config.Sentry.Debug,
		})
		if err != nil {
			slog.Error("initializing sentry", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The observability dataset is strictly in-memory; no alert history
	// survives a restart.
	db, err := sql.Open("duckdb", "")
	if err != nil {
		slog.Error("opening duckdb", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, migrateCancel := context.WithTimeout(ctx, time.Minute)
	if err := Migrate(db, migrateCtx); err != nil {
		slog.Error("migrating duckdb", slog.String("error", err.Error()))
		migrateCancel()
		os.Exit(1)
	}
	migrateCancel()

	alertProducer, err := pubsub.OpenTopic(ctx, config.TaskQueue.Alerter.ProducerAddress)
	if err != nil {
		slog.Error("opening alerter producer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		_ = alertProducer.Shutdown(context.Background())
	}()

	alertSubscriber, err := pubsub.OpenSubscription(ctx, config.TaskQueue.Alerter.ConsumerAddress)
	if err != nil {
		slog.Error("opening alerter subscription", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		_ = alertSubscriber.Shutdown(context.Background())
	}()

	dataset := NewDataset(db)
	pipeline := NewPipeline(PipelineOptions{
		ErrorRate: NewErrorRateDetector(config.ErrorWindow, config.ErrorThreshold),
		Failover:  NewFailoverDetector(config.PrimaryPool),
		Producer:  alertProducer,
		Dataset:   dataset,
	})
	tailer := NewTailerWorker(config.LogPath, pipeline)
	alerterWorker := NewAlerterWorker(AlerterWorkerOptions{
		Subscriber:      alertSubscriber,
		Alerter:         NewWebhookAlerter(config.WebhookURL, nil),
		Dataset:         dataset,
		Cooldown:        time.Duration(config.CooldownSeconds) * time.Second,
		MaintenanceFlag: config.MaintenanceFlagFile,
	})
	server, err := NewServer(ServerOptions{
		Dataset:       dataset,
		WatcherConfig: config,
	})
	if err != nil {
		slog.Error("creating status server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(tailer.Start)
	group.Go(alerterWorker.Start)
	group.Go(func() error {
		slog.Info("status server listening", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		slog.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = tailer.Stop()
		_ = alerterWorker.Stop()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		slog.Error("shutting down with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
