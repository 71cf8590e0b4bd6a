package db

import (
	"context"
	"sync"

	"restaurant/internal/domain/model"
)

// State はプロセス内だけに持つデータ一式。終了すると消える。
type State struct {
	MenuItems map[int64]model.MenuItem
	// 登録順（一覧の並び順）
	MenuOrder []int64
	// メニュー作成ごとの世代番号
	NextMenuItemGeneration int64

	Orders map[int64]model.Order
	// 次に採番する注文ID。ロールバックしても戻さない
	NextOrderID int64

	Adjustments      []model.InventoryAdjustment
	NextAdjustmentID int64
}

func newState() *State {
	return &State{
		MenuItems:   make(map[int64]model.MenuItem),
		MenuOrder:   []int64{},

		NextMenuItemGeneration: 1,

		Orders:      make(map[int64]model.Order),
		NextOrderID: 1,

		Adjustments:      []model.InventoryAdjustment{},
		NextAdjustmentID: 1,
	}
}

func (s *State) clone() *State {
	c := &State{
		MenuItems:   make(map[int64]model.MenuItem, len(s.MenuItems)),
		MenuOrder:   make([]int64, len(s.MenuOrder)),

		NextMenuItemGeneration: s.NextMenuItemGeneration,

		Orders:      make(map[int64]model.Order, len(s.Orders)),
		NextOrderID: s.NextOrderID,

		Adjustments:      make([]model.InventoryAdjustment, len(s.Adjustments)),
		NextAdjustmentID: s.NextAdjustmentID,
	}
	copy(c.Adjustments, s.Adjustments)
	for id, it := range s.MenuItems {
		c.MenuItems[id] = it
	}
	copy(c.MenuOrder, s.MenuOrder)
	for id, o := range s.Orders {
		c.Orders[id] = o.Clone()
	}
	return c
}

// Store はメモリ上のDB。1つのロックで全操作を直列にする。
type Store struct {
	mu    sync.Mutex
	state *State
}

// Open は空のストアを作る。
func Open() *Store {
	return &Store{state: newState()}
}

// Transaction runs fn while holding the store lock. When fn returns an error
// every change it made is rolled back, except for order ids already handed out.
func (s *Store) Transaction(ctx context.Context, fn func(st *State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	committed := false
	// panicでも巻き戻す
	defer func() {
		if !committed {
			snapshot.NextOrderID = s.state.NextOrderID
			*s.state = *snapshot
		}
	}()

	if err := fn(s.state); err != nil {
		return err
	}
	committed = true
	return nil
}
