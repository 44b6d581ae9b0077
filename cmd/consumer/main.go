package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/reviewpulse/config"
	"github.com/spacesedan/reviewpulse/internal/clients/kafka_client"
	"github.com/spacesedan/reviewpulse/internal/consumers"
	"github.com/spacesedan/reviewpulse/internal/logging"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
)

func main() {
	config.LoadEnv(config.AppEnv())
	cfg := config.Load()
	logging.InitLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := sentiment.NewDefaultAnalyzer()
	if err != nil {
		slog.Error("[Main] Failed to build analyzer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	kcfg := kafka_client.FromConfig(cfg.Kafka)

	var producer *kafka_client.Producer
	for {
		producer, err = kafka_client.NewProducer(kcfg)
		if err == nil {
			break
		}

		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer producer.Close()

	kafka_client.RegisterConsumer(kcfg.Topic, consumers.StartReviewConsumer(analyzer, producer, kcfg, consumers.ReviewConsumerOptions{
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
	}))

	if err := kafka_client.StartConsumer(ctx, kcfg); err != nil {
		slog.Error("[Main] Consumer stopped with error",
			slog.String("error", err.Error()))
	}
}
