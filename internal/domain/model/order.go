package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
)

// 進行順
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPreparing: 1,
	OrderStatusReady:     2,
	OrderStatusCompleted: 3,
}

// ParseOrderStatus accepts the four known statuses, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := orderStatusRank[st]; !ok {
		return "", false
	}
	return st, true
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted
}

// ステータス遷移のルール
type StatusPolicy string

const (
	// どの状態からどの状態へも変更できる
	StatusPolicyPermissive StatusPolicy = "permissive"
	// 先の状態へだけ進める（飛ばしはOK）
	StatusPolicyForwardOnly StatusPolicy = "forward-only"
)

func ParseStatusPolicy(s string) (StatusPolicy, bool) {
	switch StatusPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPolicyPermissive:
		return StatusPolicyPermissive, true
	case StatusPolicyForwardOnly:
		return StatusPolicyForwardOnly, true
	}
	return "", false
}

// Allows reports whether an order may move from one status to another.
// Staying on the same status is always allowed.
func (p StatusPolicy) Allows(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if p != StatusPolicyForwardOnly {
		return true
	}
	return orderStatusRank[to] > orderStatusRank[from]
}

// 1テーブルの注文。Total は常に明細の小計の合計と一致させる
type Order struct {
	ID          int64           `json:"id"`
	TableNumber int64           `json:"table_number"`
	Items       []LineItem      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewOrder(tableNumber int64, now time.Time) Order {
	return Order{
		TableNumber: tableNumber,
		Items:       []LineItem{},
		Total:       decimal.Zero,
		Status:      OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddLine appends a new line priced from the item as it is right now.
// Stock is not touched here; the caller reserves it.
func (o *Order) AddLine(item MenuItem, qty int64) LineItem {
	line := NewLineItem(item, qty)
	o.Items = append(o.Items, line)
	o.Total = o.Total.Add(line.Subtotal)
	return line
}

// RemoveFirstLine removes the earliest line for menuItemID.
func (o *Order) RemoveFirstLine(menuItemID int64) (LineItem, bool) {
	for i, line := range o.Items {
		if line.MenuItemID != menuItemID {
			continue
		}
		o.Items = append(o.Items[:i:i], o.Items[i+1:]...)
		o.Total = o.Total.Sub(line.Subtotal)
		return line, true
	}
	return LineItem{}, false
}

// HasLineFor reports whether any line was taken from the given menu item.
// generation 0 matches every generation of the id.
func (o Order) HasLineFor(menuItemID int64, generation int64) bool {
	for _, line := range o.Items {
		if line.MenuItemID != menuItemID {
			continue
		}
		if generation == 0 || line.MenuItemGeneration == generation {
			return true
		}
	}
	return false
}

// ItemsTotal recomputes the sum of subtotals.
func (o Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range o.Items {
		sum = sum.Add(line.Subtotal)
	}
	return sum
}

// Clone copies the order including its line slice.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]LineItem, len(o.Items))
	copy(c.Items, o.Items)
	return c
}
