package model

import "github.com/shopspring/decimal"

// 注文の明細
// 追加時点の名前と価格を必ず保存（後からの価格変更は反映しない）
type LineItem struct {
	MenuItemID        int64           `json:"menu_item_id"`
	NameSnapshot      string          `json:"name_snapshot"`
	UnitPriceSnapshot decimal.Decimal `json:"unit_price_snapshot"`
	Quantity          int64           `json:"quantity"`
	Subtotal          decimal.Decimal `json:"subtotal"`

	// 在庫を取ったメニューの世代
	MenuItemGeneration int64 `json:"-"`
}

func NewLineItem(item MenuItem, qty int64) LineItem {
	return LineItem{
		MenuItemID:        item.ID,
		NameSnapshot:      item.Name,
		UnitPriceSnapshot: item.Price,
		Quantity:          qty,
		Subtotal:          item.Price.Mul(decimal.NewFromInt(qty)),

		MenuItemGeneration: item.Generation,
	}
}
