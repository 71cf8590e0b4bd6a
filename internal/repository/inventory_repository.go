package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, menuItemID int64, newStock int64) error

	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, menuItemID int64, qty int64) (bool, error)

	// 在庫戻し（明細の削除など）
	IncreaseStock(ctx context.Context, menuItemID int64, qty int64) error

	// 在庫の増減履歴（IDは採番される）
	CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error

	// 今あるメニューの分だけ、古い順
	ListAdjustments(ctx context.Context, menuItemID int64) ([]model.InventoryAdjustment, error)
}
