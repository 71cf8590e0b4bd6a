package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusChangedEvent is emitted after an order's status has been changed.
type OrderStatusChangedEvent struct {
	OrderID     int64           `json:"order_id"`
	TableNumber int64           `json:"table_number"`
	From        OrderStatus     `json:"from"`
	To          OrderStatus     `json:"to"`
	Total       decimal.Decimal `json:"total"`
	ChangedAt   time.Time       `json:"changed_at"`
}
