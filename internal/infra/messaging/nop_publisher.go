package messaging

import (
	"context"

	"restaurant/internal/domain/model"

	"go.uber.org/zap"
)

// NopOrderPublisher is used when no broker is configured. It only logs.
type NopOrderPublisher struct {
	logger *zap.Logger
}

func NewNopOrderPublisher(logger *zap.Logger) *NopOrderPublisher {
	return &NopOrderPublisher{logger: logger}
}

func (p *NopOrderPublisher) PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChangedEvent) error {
	p.logger.Debug("order status changed",
		zap.Int64("order_id", ev.OrderID),
		zap.String("from", string(ev.From)),
		zap.String("to", string(ev.To)),
	)
	return nil
}

func (p *NopOrderPublisher) Close() error { return nil }
