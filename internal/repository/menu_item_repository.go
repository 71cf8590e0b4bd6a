package repository

import (
	"context"
	"errors"

	"restaurant/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 既に同じIDが存在する
var ErrDuplicateID = errors.New("duplicate id")

// 一覧検索
type MenuItemListQuery struct {
	// nilなら全件。完全一致
	Category *string
}

// メニューの保存・取得だけを約束。
type MenuItemRepository interface {
	// 登録順で返す
	List(ctx context.Context, q MenuItemListQuery) ([]model.MenuItem, error)
	FindByID(ctx context.Context, id int64) (model.MenuItem, error)

	// IDが0なら「既存の最大ID+1」（空なら1）を採番する
	Create(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	// 名前・価格・カテゴリを更新（在庫は InventoryRepository）
	Update(ctx context.Context, item model.MenuItem) error
	Delete(ctx context.Context, id int64) error
}
