package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Producer publishes messages to a single topic.
type Producer interface {
	WriteMessage(ctx context.Context, msg kafkago.Message) error
	Close() error
}

// WriterConfig describes a topic writer.
type WriterConfig struct {
	Brokers      []string
	Topic        string
	ClientID     string
	BatchTimeout time.Duration
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewTracedWriter builds a hash-balanced writer so messages with the same key keep their order, and
// wraps it so every write carries the caller's trace context in message headers.
func NewTracedWriter(cfg WriterConfig, tp trace.TracerProvider) (Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errors.New("kafka topic not configured")
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	base := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
	writer, err := otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes([]attribute.KeyValue{
			semconv.MessagingDestinationNameKey.String(cfg.Topic),
			attribute.String("messaging.kafka.client_id", cfg.ClientID),
		}),
	)
	if err != nil {
		return nil, err
	}
	return writer, nil
}
