package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type OrderListFilter struct {
	Status *model.OrderStatus
	// メニューIDを含む注文だけ
	MenuItemID *int64
	// 0なら世代を問わない
	MenuItemGeneration int64
	// completed 以外だけ
	OpenOnly bool
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// ID順
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)

	// 単調増加のIDを採番して保存する（再利用しない）
	Create(ctx context.Context, order model.Order) (model.Order, error)
	// 明細・合計を含めて置き換える
	Save(ctx context.Context, order model.Order) error
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
}
