package kafkalib

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/artie-labs/transfer/lib/retry"
	"github.com/segmentio/kafka-go"

	"github.com/smferguson/debezium/config"
	"github.com/smferguson/debezium/lib/mtr"
)

const (
	jitterBaseMs = 300
	jitterMaxMs  = 5_000
	maxRetries   = 5
)

// Writer publishes change events and schema-change records to Kafka, one topic per table suffix.
type Writer struct {
	*kafka.Writer
	cfg config.Kafka
	mtr mtr.Client
}

func NewWriter(cfg config.Kafka, statsD mtr.Client) *Writer {
	slog.Info("Setting up Kafka writer", slog.String("bootstrapServers", cfg.BootstrapServers))
	return &Writer{
		Writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.BootstrapServers),
			Compression:            kafka.Gzip,
			Balancer:               &kafka.LeastBytes{},
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
			Transport:              &kafka.Transport{DialTimeout: 10 * time.Second, TLS: &tls.Config{}},
		},
		cfg: cfg,
		mtr: statsD,
	}
}

// Message is the minimal shape the snapshot core writes into a Sink.
type Message struct {
	TopicSuffix  string
	PartitionKey map[string]any
	Payload      any
}

func (w *Writer) Publish(ctx context.Context, msgs []Message) error {
	kafkaMsgs, err := buildKafkaMessages(w.cfg, msgs)
	if err != nil {
		return fmt.Errorf("failed to build kafka messages: %w", err)
	}

	retryCfg, err := retry.NewJitterRetryConfig(jitterBaseMs, jitterMaxMs, maxRetries, retry.AlwaysRetry)
	if err != nil {
		return fmt.Errorf("failed to build retry config: %w", err)
	}

	_, err = retry.WithRetriesAndResult(retryCfg, func(attempt int, _ error) (struct{}, error) {
		writeErr := w.WriteMessages(ctx, kafkaMsgs...)
		if writeErr != nil && w.mtr != nil {
			w.mtr.Incr("kafka.publish.error", map[string]string{"attempt": fmt.Sprintf("%d", attempt)})
		}
		return struct{}{}, writeErr
	})
	if err != nil {
		return fmt.Errorf("failed to publish %d message(s): %w", len(kafkaMsgs), err)
	}

	if w.mtr != nil {
		w.mtr.Count("kafka.publish", int64(len(kafkaMsgs)), nil)
	}
	return nil
}

func buildKafkaMessages(cfg config.Kafka, msgs []Message) ([]kafka.Message, error) {
	result := make([]kafka.Message, len(msgs))
	for i, msg := range msgs {
		valueBytes, err := json.Marshal(msg.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}

		keyBytes, err := json.Marshal(msg.PartitionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal partition key: %w", err)
		}

		result[i] = kafka.Message{
			Topic: fmt.Sprintf("%s.%s", cfg.TopicPrefix, msg.TopicSuffix),
			Key:   keyBytes,
			Value: valueBytes,
		}
	}
	return result, nil
}
