package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/haiminh/geoatlas/adapters/event"
	"github.com/haiminh/geoatlas/internal/config"
	"github.com/haiminh/geoatlas/pkg/logger"
)

// fetchRetryDelay spaces out fetch attempts after a consumer error.
const fetchRetryDelay = 2 * time.Second

// The mail worker drains the auth.emails topic and delivers reset links.
// Actual SMTP submission sits behind deliver; swapping in a provider
// client touches nothing else.
func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting geoatlas mail worker...")

	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicAuthEmails,
		GroupID:  "auth-mailer-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicAuthEmails))

	ctx := context.Background()
	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			appLogger.Error("Failed to read message from Kafka", err)
			// Keeps the loop from spinning hot while brokers are down.
			time.Sleep(fetchRetryDelay)
			continue
		}

		var payload event.ResetEmailPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Error("Failed to unmarshal reset email event, skipping", err)
			commitMessage(appLogger, consumer, msg)
			continue
		}

		if err := deliver(cfg, appLogger, payload); err != nil {
			appLogger.Error("Failed to deliver reset email", err, zap.String("email", payload.Email))
			continue
		}

		commitMessage(appLogger, consumer, msg)
	}
}

func deliver(cfg config.Config, log logger.Logger, payload event.ResetEmailPayload) error {
	link := fmt.Sprintf("%s/user/reset?reset=%s", cfg.App.BaseURL, payload.ResetString)

	// The reset string is already opaque and signed; the log line is the
	// delivery channel until an SMTP provider is wired in.
	log.Info("Delivering password reset email",
		zap.String("email", payload.Email),
		zap.String("link", link),
		zap.Time("requested_at", payload.RequestedAt),
	)
	return nil
}

func commitMessage(log logger.Logger, consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
