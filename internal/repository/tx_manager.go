package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	MenuItems() MenuItemRepository
	Inventory() InventoryRepository
	Orders() OrderRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fn がエラーを返したら、それまでの変更はすべて取り消す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
