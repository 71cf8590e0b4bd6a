package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"restaurant/internal/domain/model"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	batchTimeout = 10 * time.Millisecond
	writeTimeout = 5 * time.Second
)

// messageWriter is the part of *kafkago.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaOrderPublisher sends order status changes to the kitchen topic,
// keyed by order id so one order's events stay in order.
type KafkaOrderPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaOrderPublisher(broker, topic string, logger *zap.Logger) *KafkaOrderPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(broker),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafkago.RequireOne,
	}
	return newKafkaOrderPublisher(w, logger)
}

func newKafkaOrderPublisher(w messageWriter, logger *zap.Logger) *KafkaOrderPublisher {
	return &KafkaOrderPublisher{writer: w, logger: logger}
}

func (p *KafkaOrderPublisher) PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChangedEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order status event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("OrderStatusChanged")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order status event: %w", err)
	}

	p.logger.Debug("order status event published",
		zap.Int64("order_id", ev.OrderID),
		zap.String("to", string(ev.To)),
	)
	return nil
}

func (p *KafkaOrderPublisher) Close() error {
	return p.writer.Close()
}
