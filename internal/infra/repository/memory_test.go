package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/infra/db"
	infraRepo "restaurant/internal/infra/repository"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTx(t *testing.T, tm *infraRepo.TxManagerMemory, fn func(r repo.TxRepos) error) {
	t.Helper()
	require.NoError(t, tm.WithinTx(context.Background(), fn))
}

func seeded(t *testing.T) *infraRepo.TxManagerMemory {
	t.Helper()
	tm := infraRepo.NewTxManagerMemory(db.Open())
	withTx(t, tm, func(r repo.TxRepos) error {
		for _, it := range model.DefaultMenu() {
			if _, err := r.MenuItems().Create(context.Background(), it); err != nil {
				return err
			}
		}
		return nil
	})
	return tm
}

// =====================
// MenuItems
// =====================

func TestMenuItemMemory_Create_AssignsMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		it, err := r.MenuItems().Create(ctx, model.MenuItem{Name: "Rendang", Price: decimal.NewFromInt(30000), Category: "Makanan Utama"})
		require.NoError(t, err)
		assert.Equal(t, int64(11), it.ID)

		// 最大IDを消すと、そのIDが再び使われる
		require.NoError(t, r.MenuItems().Delete(ctx, 11))
		first := it.Generation
		it, err = r.MenuItems().Create(ctx, model.MenuItem{Name: "Sate", Price: decimal.NewFromInt(30000), Category: "Makanan Utama"})
		require.NoError(t, err)
		assert.Equal(t, int64(11), it.ID)
		// IDは同じでも世代は別
		assert.Greater(t, it.Generation, first)
		return nil
	})
}

func TestMenuItemMemory_Create_EmptyStartsAtOne(t *testing.T) {
	tm := infraRepo.NewTxManagerMemory(db.Open())

	withTx(t, tm, func(r repo.TxRepos) error {
		it, err := r.MenuItems().Create(context.Background(), model.MenuItem{Name: "Kopi"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), it.ID)
		return nil
	})
}

func TestMenuItemMemory_Create_DuplicateID(t *testing.T) {
	tm := seeded(t)

	err := tm.WithinTx(context.Background(), func(r repo.TxRepos) error {
		_, err := r.MenuItems().Create(context.Background(), model.MenuItem{ID: 3, Name: "dup"})
		return err
	})
	assert.ErrorIs(t, err, repo.ErrDuplicateID)
}

func TestMenuItemMemory_List_InsertionOrderAndCategory(t *testing.T) {
	ctx := context.Background()
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		require.NoError(t, r.MenuItems().Delete(ctx, 2))
		_, err := r.MenuItems().Create(ctx, model.MenuItem{ID: 2, Name: "Mie Goreng", Category: "Makanan Utama"})
		require.NoError(t, err)

		items, err := r.MenuItems().List(ctx, repo.MenuItemListQuery{})
		require.NoError(t, err)
		require.Len(t, items, 10)
		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, int64(2), items[9].ID)

		cat := "Snack"
		items, err = r.MenuItems().List(ctx, repo.MenuItemListQuery{Category: &cat})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Pisang Goreng", items[0].Name)
		return nil
	})
}

func TestMenuItemMemory_Update_KeepsStock(t *testing.T) {
	ctx := context.Background()
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		require.NoError(t, r.MenuItems().Update(ctx, model.MenuItem{ID: 7, Name: "Kopi Susu", Price: decimal.NewFromInt(9000), Category: "Minuman", Stock: 0}))

		it, err := r.MenuItems().FindByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "Kopi Susu", it.Name)
		assert.Equal(t, int64(100), it.Stock)

		assert.ErrorIs(t, r.MenuItems().Update(ctx, model.MenuItem{ID: 99}), repo.ErrNotFound)
		return nil
	})
}

// =====================
// Inventory
// =====================

func TestInventoryMemory_DecreaseStockIfEnough(t *testing.T) {
	ctx := context.Background()
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		require.NoError(t, r.Inventory().SetStock(ctx, 5, 5))

		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, 5, 6)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = r.Inventory().DecreaseStockIfEnough(ctx, 5, 5)
		require.NoError(t, err)
		assert.True(t, ok)

		it, _ := r.MenuItems().FindByID(ctx, 5)
		assert.Equal(t, int64(0), it.Stock)

		_, err = r.Inventory().DecreaseStockIfEnough(ctx, 99, 1)
		assert.ErrorIs(t, err, repo.ErrNotFound)
		return nil
	})
}

func TestInventoryMemory_IncreaseStock_Missing(t *testing.T) {
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		assert.ErrorIs(t, r.Inventory().IncreaseStock(context.Background(), 99, 1), repo.ErrNotFound)
		return nil
	})
}

func TestInventoryMemory_Adjustments(t *testing.T) {
	ctx := context.Background()
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		require.NoError(t, r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{MenuItemID: 5, Delta: -2, Reason: "order #1"}))
		require.NoError(t, r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{MenuItemID: 6, Delta: 3, Reason: "recount"}))
		require.NoError(t, r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{MenuItemID: 5, Delta: 2, Reason: "order #1 item removed"}))

		adjs, err := r.Inventory().ListAdjustments(ctx, 5)
		require.NoError(t, err)
		require.Len(t, adjs, 2)
		assert.Equal(t, int64(1), adjs[0].ID)
		assert.Equal(t, int64(3), adjs[1].ID)
		assert.Equal(t, int64(-2), adjs[0].Delta)

		assert.ErrorIs(t, r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{MenuItemID: 99, Delta: 1}), repo.ErrNotFound)
		return nil
	})
}

func TestInventoryMemory_Adjustments_NotInheritedByReusedID(t *testing.T) {
	ctx := context.Background()
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		require.NoError(t, r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{MenuItemID: 10, Delta: -30, Reason: "order #1"}))
		require.NoError(t, r.MenuItems().Delete(ctx, 10))

		adjs, err := r.Inventory().ListAdjustments(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, adjs)

		it, err := r.MenuItems().Create(ctx, model.MenuItem{Name: "Tempe", Price: decimal.NewFromInt(4000), Category: "Snack", Stock: 100})
		require.NoError(t, err)
		require.Equal(t, int64(10), it.ID)
		require.NoError(t, r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{MenuItemID: 10, Delta: 100, Reason: "initial stock"}))

		adjs, err = r.Inventory().ListAdjustments(ctx, 10)
		require.NoError(t, err)
		require.Len(t, adjs, 1)
		assert.Equal(t, "initial stock", adjs[0].Reason)
		return nil
	})
}

// =====================
// Orders
// =====================

func TestOrderMemory_Create_MonotonicIDs(t *testing.T) {
	ctx := context.Background()
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		for want := int64(1); want <= 3; want++ {
			o, err := r.Orders().Create(ctx, model.NewOrder(want, time.Now()))
			require.NoError(t, err)
			assert.Equal(t, want, o.ID)
		}
		return nil
	})

	// 失敗したTxで払い出したIDも戻らない
	_ = tm.WithinTx(ctx, func(r repo.TxRepos) error {
		_, _ = r.Orders().Create(ctx, model.NewOrder(9, time.Now()))
		return errors.New("abort")
	})

	withTx(t, tm, func(r repo.TxRepos) error {
		o, err := r.Orders().Create(ctx, model.NewOrder(4, time.Now()))
		require.NoError(t, err)
		assert.Equal(t, int64(5), o.ID)

		_, err = r.Orders().FindByID(ctx, 4)
		assert.ErrorIs(t, err, repo.ErrNotFound)
		return nil
	})
}

func TestOrderMemory_FindByID_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		o, err := r.Orders().Create(ctx, model.NewOrder(1, time.Now()))
		require.NoError(t, err)

		got, err := r.Orders().FindByID(ctx, o.ID)
		require.NoError(t, err)
		got.AddLine(model.MenuItem{ID: 5, Name: "Es Teh", Price: decimal.NewFromInt(5000)}, 1)

		again, err := r.Orders().FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Empty(t, again.Items)
		return nil
	})
}

func TestOrderMemory_List_Filters(t *testing.T) {
	ctx := context.Background()
	tm := seeded(t)

	withTx(t, tm, func(r repo.TxRepos) error {
		o1, _ := r.Orders().Create(ctx, model.NewOrder(1, time.Now()))
		o2, _ := r.Orders().Create(ctx, model.NewOrder(2, time.Now()))
		o2.AddLine(model.MenuItem{ID: 5, Name: "Es Teh", Price: decimal.NewFromInt(5000)}, 1)
		require.NoError(t, r.Orders().Save(ctx, o2))
		require.NoError(t, r.Orders().UpdateStatus(ctx, o1.ID, model.OrderStatusReady))

		all, err := r.Orders().List(ctx, repo.OrderListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, o1.ID, all[0].ID)

		ready := model.OrderStatusReady
		got, _ := r.Orders().List(ctx, repo.OrderListFilter{Status: &ready})
		require.Len(t, got, 1)
		assert.Equal(t, o1.ID, got[0].ID)

		menuID := int64(5)
		got, _ = r.Orders().List(ctx, repo.OrderListFilter{MenuItemID: &menuID})
		require.Len(t, got, 1)
		assert.Equal(t, o2.ID, got[0].ID)

		// 世代違いは含まない
		got, _ = r.Orders().List(ctx, repo.OrderListFilter{MenuItemID: &menuID, MenuItemGeneration: 7})
		assert.Empty(t, got)

		require.NoError(t, r.Orders().UpdateStatus(ctx, o2.ID, model.OrderStatusCompleted))
		got, _ = r.Orders().List(ctx, repo.OrderListFilter{MenuItemID: &menuID, OpenOnly: true})
		assert.Empty(t, got)
		got, _ = r.Orders().List(ctx, repo.OrderListFilter{OpenOnly: true})
		require.Len(t, got, 1)
		assert.Equal(t, o1.ID, got[0].ID)

		assert.ErrorIs(t, r.Orders().UpdateStatus(ctx, 99, model.OrderStatusReady), repo.ErrNotFound)
		assert.ErrorIs(t, r.Orders().Save(ctx, model.Order{ID: 99}), repo.ErrNotFound)
		return nil
	})
}

// =====================
// AuditLogs
// =====================

func TestAuditLogMemory_List_NewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewAuditLogMemoryRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		action := model.AuditActionUpdateStock
		if i%2 == 0 {
			action = model.AuditActionUpdatePrice
		}
		require.NoError(t, r.Create(ctx, model.AuditLog{
			ID:           string(rune('a' + i)),
			Action:       action,
			ResourceType: model.AuditResourceMenuItem,
			ResourceID:   int64(i),
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}))
	}

	logs, err := r.List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 5)
	assert.Equal(t, "e", logs[0].ID)

	price := model.AuditActionUpdatePrice
	logs, _ = r.List(ctx, repo.AuditLogFilter{Action: &price})
	require.Len(t, logs, 3)

	logs, _ = r.List(ctx, repo.AuditLogFilter{Limit: 2, Offset: 1})
	require.Len(t, logs, 2)
	assert.Equal(t, "d", logs[0].ID)

	from := base.Add(3 * time.Hour)
	logs, _ = r.List(ctx, repo.AuditLogFilter{CreatedFrom: &from})
	assert.Len(t, logs, 2)
}
