package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Apurer/go-gin-inventory-server/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/go-gin-inventory-server/internal/platform/kafka"
)

var _ ports.StatusNotifier = (*StatusNotifier)(nil)

// StatusChangedEvent is the message body published for each lifecycle step.
type StatusChangedEvent struct {
	OrderID    int64     `json:"orderId"`
	ProductID  int64     `json:"productId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurredAt"`
}

// StatusNotifier publishes order status changes keyed by order id.
type StatusNotifier struct {
	producer platformkafka.Producer
}

func NewStatusNotifier(producer platformkafka.Producer) *StatusNotifier {
	return &StatusNotifier{producer: producer}
}

func (n *StatusNotifier) NotifyStatusChanged(ctx context.Context, change ports.StatusChange) error {
	if n == nil || n.producer == nil {
		return errors.New("kafka status notifier not configured")
	}
	payload, err := json.Marshal(StatusChangedEvent{
		OrderID:    change.OrderID,
		ProductID:  change.ProductID,
		From:       string(change.From),
		To:         string(change.To),
		OccurredAt: change.OccurredAt,
	})
	if err != nil {
		return err
	}
	return n.producer.WriteMessage(ctx, kafkago.Message{
		Key:   []byte(strconv.FormatInt(change.OrderID, 10)),
		Value: payload,
		Time:  change.OccurredAt,
	})
}

// Close releases the underlying producer.
func (n *StatusNotifier) Close() error {
	if n == nil || n.producer == nil {
		return nil
	}
	return n.producer.Close()
}
