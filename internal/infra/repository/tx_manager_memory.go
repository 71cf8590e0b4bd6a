package repository

import (
	"context"

	"restaurant/internal/infra/db"
	repo "restaurant/internal/repository"
)

type txReposMemory struct {
	menuItems repo.MenuItemRepository
	inventory repo.InventoryRepository
	orders    repo.OrderRepository
}

func (r *txReposMemory) MenuItems() repo.MenuItemRepository  { return r.menuItems }
func (r *txReposMemory) Inventory() repo.InventoryRepository { return r.inventory }
func (r *txReposMemory) Orders() repo.OrderRepository        { return r.orders }

type TxManagerMemory struct {
	store *db.Store
}

func NewTxManagerMemory(store *db.Store) *TxManagerMemory {
	return &TxManagerMemory{store: store}
}

func (tm *TxManagerMemory) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.store.Transaction(ctx, func(st *db.State) error {
		//repoはロック中のstateで作り直す
		r := &txReposMemory{
			menuItems: NewMenuItemMemoryRepository(st),
			inventory: NewInventoryMemoryRepository(st),
			orders:    NewOrderMemoryRepository(st),
		}
		return fn(r)
	})
}
