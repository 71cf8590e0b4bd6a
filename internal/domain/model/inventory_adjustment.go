package model

import (
	"fmt"
	"time"
)

//在庫の増減履歴

type InventoryAdjustment struct {
	ID         int64     `json:"id"`
	MenuItemID int64     `json:"menu_item_id"`
	Delta      int64     `json:"delta"`
	StockAfter int64     `json:"stock_after"`
	Reason     string    `json:"reason"`
	Actor      string    `json:"actor"`
	CreatedAt  time.Time `json:"created_at"`

	MenuItemGeneration int64 `json:"-"`
}

func ReserveReason(orderID int64) string {
	return fmt.Sprintf("order #%d", orderID)
}

func ReleaseReason(orderID int64) string {
	return fmt.Sprintf("order #%d item removed", orderID)
}
