package repository

import (
	"context"

	"restaurant/internal/domain/model"
	"restaurant/internal/infra/db"
	repo "restaurant/internal/repository"
)

type MenuItemMemoryRepository struct {
	st *db.State
}

// DI
func NewMenuItemMemoryRepository(st *db.State) *MenuItemMemoryRepository {
	return &MenuItemMemoryRepository{st: st}
}

// 登録順で返す。カテゴリ指定があれば完全一致で絞る
func (r *MenuItemMemoryRepository) List(ctx context.Context, q repo.MenuItemListQuery) ([]model.MenuItem, error) {
	items := make([]model.MenuItem, 0, len(r.st.MenuOrder))
	for _, id := range r.st.MenuOrder {
		it := r.st.MenuItems[id]
		if q.Category != nil && it.Category != *q.Category {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// IDでメニューを取得
func (r *MenuItemMemoryRepository) FindByID(ctx context.Context, id int64) (model.MenuItem, error) {
	it, ok := r.st.MenuItems[id]
	if !ok {
		return model.MenuItem{}, repo.ErrNotFound
	}
	return it, nil
}

// メニューの作成
func (r *MenuItemMemoryRepository) Create(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	if item.ID == 0 {
		item.ID = r.nextID()
	}
	if _, exists := r.st.MenuItems[item.ID]; exists {
		return model.MenuItem{}, repo.ErrDuplicateID
	}
	item.Generation = r.st.NextMenuItemGeneration
	r.st.NextMenuItemGeneration++

	r.st.MenuItems[item.ID] = item
	r.st.MenuOrder = append(r.st.MenuOrder, item.ID)
	return item, nil
}

// 既存の最大ID+1（空なら1）。カウンタは持たない
func (r *MenuItemMemoryRepository) nextID() int64 {
	var maxID int64
	for id := range r.st.MenuItems {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// メニューの更新（在庫はそのまま）
func (r *MenuItemMemoryRepository) Update(ctx context.Context, item model.MenuItem) error {
	cur, ok := r.st.MenuItems[item.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Name = item.Name
	cur.Price = item.Price
	cur.Category = item.Category
	r.st.MenuItems[item.ID] = cur
	return nil
}

// メニュー削除
func (r *MenuItemMemoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.st.MenuItems[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.MenuItems, id)

	order := make([]int64, 0, len(r.st.MenuOrder))
	for _, v := range r.st.MenuOrder {
		if v != id {
			order = append(order, v)
		}
	}
	r.st.MenuOrder = order
	return nil
}
