package repository

import (
	"context"

	"restaurant/internal/domain/model"
	"restaurant/internal/infra/db"
	repo "restaurant/internal/repository"
)

type InventoryMemoryRepository struct {
	st *db.State
}

func NewInventoryMemoryRepository(st *db.State) *InventoryMemoryRepository {
	return &InventoryMemoryRepository{st: st}
}

// 在庫の現在値を設定
func (r *InventoryMemoryRepository) SetStock(ctx context.Context, menuItemID int64, newStock int64) error {
	it, ok := r.st.MenuItems[menuItemID]
	if !ok {
		return repo.ErrNotFound
	}
	it.Stock = newStock
	r.st.MenuItems[menuItemID] = it
	return nil
}

// 在庫が足りるときだけ減らす
func (r *InventoryMemoryRepository) DecreaseStockIfEnough(ctx context.Context, menuItemID int64, qty int64) (bool, error) {
	it, ok := r.st.MenuItems[menuItemID]
	if !ok {
		return false, repo.ErrNotFound
	}
	if it.Stock < qty {
		return false, nil
	}
	it.Stock -= qty
	r.st.MenuItems[menuItemID] = it
	return true, nil
}

// 在庫戻し
func (r *InventoryMemoryRepository) IncreaseStock(ctx context.Context, menuItemID int64, qty int64) error {
	it, ok := r.st.MenuItems[menuItemID]
	if !ok {
		return repo.ErrNotFound
	}
	it.Stock += qty
	r.st.MenuItems[menuItemID] = it
	return nil
}

// 今あるメニューの世代で記録する
func (r *InventoryMemoryRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	it, ok := r.st.MenuItems[adj.MenuItemID]
	if !ok {
		return repo.ErrNotFound
	}
	adj.MenuItemGeneration = it.Generation
	adj.ID = r.st.NextAdjustmentID
	r.st.NextAdjustmentID++
	r.st.Adjustments = append(r.st.Adjustments, adj)
	return nil
}

// 削除済みの同じIDの履歴は含めない
func (r *InventoryMemoryRepository) ListAdjustments(ctx context.Context, menuItemID int64) ([]model.InventoryAdjustment, error) {
	out := []model.InventoryAdjustment{}
	it, ok := r.st.MenuItems[menuItemID]
	if !ok {
		return out, nil
	}
	for _, a := range r.st.Adjustments {
		if a.MenuItemID == menuItemID && a.MenuItemGeneration == it.Generation {
			out = append(out, a)
		}
	}
	return out, nil
}
