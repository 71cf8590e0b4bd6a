package repository

import (
	"context"
	"sort"

	"restaurant/internal/domain/model"
	"restaurant/internal/infra/db"
	repo "restaurant/internal/repository"
)

type OrderMemoryRepository struct {
	st *db.State
}

func NewOrderMemoryRepository(st *db.State) *OrderMemoryRepository {
	return &OrderMemoryRepository{st: st}
}

func (r *OrderMemoryRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := r.st.Orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *OrderMemoryRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	orders := make([]model.Order, 0, len(r.st.Orders))
	for _, o := range r.st.Orders {
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		if f.MenuItemID != nil && !o.HasLineFor(*f.MenuItemID, f.MenuItemGeneration) {
			continue
		}
		if f.OpenOnly && o.Status.IsTerminal() {
			continue
		}
		orders = append(orders, o.Clone())
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (r *OrderMemoryRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	order.ID = r.st.NextOrderID
	r.st.NextOrderID++

	r.st.Orders[order.ID] = order.Clone()
	return order, nil
}

func (r *OrderMemoryRepository) Save(ctx context.Context, order model.Order) error {
	if _, ok := r.st.Orders[order.ID]; !ok {
		return repo.ErrNotFound
	}
	r.st.Orders[order.ID] = order.Clone()
	return nil
}

func (r *OrderMemoryRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	o, ok := r.st.Orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	r.st.Orders[orderID] = o
	return nil
}
