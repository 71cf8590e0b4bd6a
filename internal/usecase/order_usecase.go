package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	publisher OrderEventPublisher
	idGen     IDGenerator
	clock     Clock
	policy    model.StatusPolicy
	logger    *zap.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	auditRepo repo.AuditLogRepository,
	publisher OrderEventPublisher,
	idGen IDGenerator,
	clock Clock,
	policy model.StatusPolicy,
	logger *zap.Logger,
) *OrderUsecase {
	if policy == "" {
		policy = model.StatusPolicyPermissive
	}
	return &OrderUsecase{
		tx:        tx,
		auditRepo: auditRepo,
		publisher: publisher,
		idGen:     idGen,
		clock:     clock,
		policy:    policy,
		logger:    logger,
	}
}

// 新しい注文（pending）を作る。IDは1からの連番で再利用しない
func (u *OrderUsecase) CreateOrder(ctx context.Context, tableNumber int64) (out model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.CreateOrder", trace.WithAttributes(attribute.Int64("order.table", tableNumber)))
	defer func() { endSpan(span, err) }()

	if tableNumber <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid table number")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.Orders().Create(ctx, model.NewOrder(tableNumber, u.clock.Now()))
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		out = created
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	span.SetAttributes(attribute.Int64("order.id", out.ID))
	return out, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (out model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.GetOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer func() { endSpan(span, err) }()

	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

// ID順
func (u *OrderUsecase) ListOrders(ctx context.Context) (out []model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.ListOrders")
	defer func() { endSpan(span, err) }()

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().List(ctx, repo.OrderListFilter{})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		out = orders
		return nil
	})
	if err != nil {
		return []model.Order{}, err
	}
	return out, nil
}

// AddLineItem reserves qty units of the menu item and appends a line priced
// at the item's current price. Nothing changes when stock is short.
func (u *OrderUsecase) AddLineItem(ctx context.Context, orderID int64, menuItemID int64, qty int64) (out model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.AddLineItem", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int64("menu_item.id", menuItemID),
		attribute.Int64("quantity", qty),
	))
	defer func() { endSpan(span, err) }()

	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if menuItemID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}
	if qty <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		it, err := r.MenuItems().FindByID(ctx, menuItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		//在庫減算（足りないなら false）
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, menuItemID, qty)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, fmt.Sprintf("insufficient stock (available %d)", it.Stock))
		}
		if err := recordAdjustment(ctx, r, u.clock, menuItemID, -qty, it.Stock-qty, model.ReserveReason(orderID)); err != nil {
			return err
		}

		//スナップショット
		o.AddLine(it, qty)
		o.UpdatedAt = u.clock.Now()
		if err := r.Orders().Save(ctx, o); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

// RemoveLineItem removes the first line for menuItemID and gives its quantity
// back to stock.
func (u *OrderUsecase) RemoveLineItem(ctx context.Context, orderID int64, menuItemID int64) (out model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.RemoveLineItem", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int64("menu_item.id", menuItemID),
	))
	defer func() { endSpan(span, err) }()

	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		line, ok := o.RemoveFirstLine(menuItemID)
		if !ok {
			return NewHTTPError(http.StatusNotFound, "line item not found")
		}

		//在庫戻し。取ったメニューが既に無ければ（同じIDの別メニューでも）何もしない
		it, err := r.MenuItems().FindByID(ctx, menuItemID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		if err != nil || it.Generation != line.MenuItemGeneration {
			u.logger.Debug("stock not restored, menu item is gone",
				zap.Int64("order_id", orderID),
				zap.Int64("menu_item_id", menuItemID),
				zap.Int64("quantity", line.Quantity),
			)
		} else {
			if err := r.Inventory().IncreaseStock(ctx, menuItemID, line.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "store error")
			}
			if err := recordAdjustment(ctx, r, u.clock, menuItemID, line.Quantity, it.Stock+line.Quantity, model.ReleaseReason(orderID)); err != nil {
				return err
			}
		}

		o.UpdatedAt = u.clock.Now()
		if err := r.Orders().Save(ctx, o); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

// SetStatus overwrites the order status, subject to the configured policy.
// Setting the current status again is a no-op.
func (u *OrderUsecase) SetStatus(ctx context.Context, orderID int64, status string) (out model.Order, err error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.SetStatus", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer func() { endSpan(span, err) }()

	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	newStatus, ok := model.ParseOrderStatus(status)
	if !ok {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var before model.OrderStatus
	changed := false

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		// すでに同じなら何もしない
		before = o.Status
		if o.Status == newStatus {
			out = o
			return nil
		}
		if !u.policy.Allows(o.Status, newStatus) {
			return NewHTTPError(http.StatusConflict, fmt.Sprintf("cannot change status from %s to %s", o.Status, newStatus))
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		beforeJSON := `{"status":"` + string(before) + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `"}`
		if err := writeAudit(ctx, u.auditRepo, u.idGen, u.clock, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID, beforeJSON, afterJSON); err != nil {
			return err
		}

		o.Status = newStatus
		out = o
		changed = true
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	if changed {
		u.publishStatusChanged(ctx, out, before)
	}
	return out, nil
}

// 通知の失敗は注文の結果に影響させない
func (u *OrderUsecase) publishStatusChanged(ctx context.Context, o model.Order, from model.OrderStatus) {
	if u.publisher == nil {
		return
	}
	ev := model.OrderStatusChangedEvent{
		OrderID:     o.ID,
		TableNumber: o.TableNumber,
		From:        from,
		To:          o.Status,
		Total:       o.Total,
		ChangedAt:   u.clock.Now(),
	}
	if err := u.publisher.PublishOrderStatusChanged(ctx, ev); err != nil {
		u.logger.Warn("publish order status changed failed",
			zap.Int64("order_id", o.ID),
			zap.String("status", string(o.Status)),
			zap.Error(err),
		)
	}
}

func findOrder(ctx context.Context, r repo.TxRepos, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return o, nil
}
