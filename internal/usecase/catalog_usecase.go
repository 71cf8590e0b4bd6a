package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CatalogUsecase struct {
	tx           repo.TransactionManager
	auditRepo    repo.AuditLogRepository
	idGen        IDGenerator
	clock        Clock
	logger       *zap.Logger
	defaultStock int64
}

// DI
func NewCatalogUsecase(
	tx repo.TransactionManager,
	auditRepo repo.AuditLogRepository,
	idGen IDGenerator,
	clock Clock,
	logger *zap.Logger,
	defaultStock int64,
) *CatalogUsecase {
	if defaultStock < 0 {
		defaultStock = model.DefaultStock
	}
	return &CatalogUsecase{
		tx:           tx,
		auditRepo:    auditRepo,
		idGen:        idGen,
		clock:        clock,
		logger:       logger,
		defaultStock: defaultStock,
	}
}

type AddMenuItemInput struct {
	Name     string
	Price    decimal.Decimal
	Category string
	// nilなら既定の在庫
	Stock *int64
}

func (u *CatalogUsecase) AddItem(ctx context.Context, in AddMenuItemInput) (out model.MenuItem, err error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.AddItem")
	defer func() { endSpan(span, err) }()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price.IsNegative() {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "category required")
	}
	stock := u.defaultStock
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.MenuItems().Create(ctx, model.MenuItem{
			Name:     name,
			Price:    in.Price,
			Category: category,
			Stock:    stock,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		if err := recordAdjustment(ctx, r, u.clock, created.ID, created.Stock, created.Stock, initialStockReason); err != nil {
			return err
		}

		afterJSON := fmt.Sprintf(`{"name":%q,"price":"%s","category":%q,"stock":%d}`, created.Name, created.Price, created.Category, created.Stock)
		if err := u.audit(ctx, model.AuditActionCreateMenuItem, model.AuditResourceMenuItem, created.ID, "", afterJSON); err != nil {
			return err
		}

		out = created
		return nil
	})
	if err != nil {
		return model.MenuItem{}, err
	}

	span.SetAttributes(attribute.Int64("menu_item.id", out.ID))
	return out, nil
}

// RemoveItem deletes a menu item. Items still referenced by an order that is
// not completed cannot be removed.
func (u *CatalogUsecase) RemoveItem(ctx context.Context, menuItemID int64) (out model.MenuItem, err error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.RemoveItem", trace.WithAttributes(attribute.Int64("menu_item.id", menuItemID)))
	defer func() { endSpan(span, err) }()

	if menuItemID <= 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := r.MenuItems().FindByID(ctx, menuItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		//未完了の注文から参照されている間は消さない
		open, err := r.Orders().List(ctx, repo.OrderListFilter{
			MenuItemID:         &menuItemID,
			MenuItemGeneration: it.Generation,
			OpenOnly:           true,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		if len(open) > 0 {
			return NewHTTPError(http.StatusConflict, fmt.Sprintf("menu item is used by open order %d", open[0].ID))
		}

		if err := r.MenuItems().Delete(ctx, menuItemID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "menu item not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		beforeJSON := fmt.Sprintf(`{"name":%q,"stock":%d}`, it.Name, it.Stock)
		if err := u.audit(ctx, model.AuditActionDeleteMenuItem, model.AuditResourceMenuItem, menuItemID, beforeJSON, ""); err != nil {
			return err
		}

		out = it
		return nil
	})
	if err != nil {
		return model.MenuItem{}, err
	}
	return out, nil
}

// 空文字ならカテゴリで絞らない
func (u *CatalogUsecase) ListItems(ctx context.Context, category string) (out []model.MenuItem, err error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.ListItems")
	defer func() { endSpan(span, err) }()

	q := repo.MenuItemListQuery{}
	if c := strings.TrimSpace(category); c != "" {
		q.Category = &c
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, err := r.MenuItems().List(ctx, q)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		out = items
		return nil
	})
	if err != nil {
		return []model.MenuItem{}, err
	}
	return out, nil
}

func (u *CatalogUsecase) GetItem(ctx context.Context, menuItemID int64) (out model.MenuItem, err error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.GetItem", trace.WithAttributes(attribute.Int64("menu_item.id", menuItemID)))
	defer func() { endSpan(span, err) }()

	if menuItemID <= 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := r.MenuItems().FindByID(ctx, menuItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		out = it
		return nil
	})
	if err != nil {
		return model.MenuItem{}, err
	}
	return out, nil
}

func (u *CatalogUsecase) SetStock(ctx context.Context, menuItemID int64, newStock int64, reason string) (err error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.SetStock", trace.WithAttributes(attribute.Int64("menu_item.id", menuItemID)))
	defer func() { endSpan(span, err) }()

	if menuItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）
		it, err := r.MenuItems().FindByID(ctx, menuItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		if err := r.Inventory().SetStock(ctx, menuItemID, newStock); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		if err := recordAdjustment(ctx, r, u.clock, menuItemID, newStock-it.Stock, newStock, strings.TrimSpace(reason)); err != nil {
			return err
		}

		beforeJSON := fmt.Sprintf(`{"stock":%d}`, it.Stock)
		afterJSON := fmt.Sprintf(`{"stock":%d,"reason":%q}`, newStock, strings.TrimSpace(reason))
		return u.audit(ctx, model.AuditActionUpdateStock, model.AuditResourceMenuItem, menuItemID, beforeJSON, afterJSON)
	})
}

// SetPrice changes the catalog price. Lines already in orders keep the price
// they were added with.
func (u *CatalogUsecase) SetPrice(ctx context.Context, menuItemID int64, price decimal.Decimal) (err error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.SetPrice", trace.WithAttributes(attribute.Int64("menu_item.id", menuItemID)))
	defer func() { endSpan(span, err) }()

	if menuItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}
	if price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := r.MenuItems().FindByID(ctx, menuItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		before := it.Price
		it.Price = price
		if err := r.MenuItems().Update(ctx, it); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		beforeJSON := fmt.Sprintf(`{"price":"%s"}`, before)
		afterJSON := fmt.Sprintf(`{"price":"%s"}`, price)
		return u.audit(ctx, model.AuditActionUpdatePrice, model.AuditResourceMenuItem, menuItemID, beforeJSON, afterJSON)
	})
}

// Seed loads items with their ids as given (the default menu on startup).
func (u *CatalogUsecase) Seed(ctx context.Context, items []model.MenuItem) (err error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.Seed", trace.WithAttributes(attribute.Int("menu_item.count", len(items))))
	defer func() { endSpan(span, err) }()

	for _, it := range items {
		if it.ID <= 0 || it.Price.IsNegative() || it.Stock < 0 {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid seed item %q", it.Name))
		}
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, it := range items {
			if _, err := r.MenuItems().Create(ctx, it); err != nil {
				if errors.Is(err, repo.ErrDuplicateID) {
					return NewHTTPError(http.StatusConflict, fmt.Sprintf("menu item %d already exists", it.ID))
				}
				return NewHTTPError(http.StatusInternalServerError, "store error")
			}
			if err := recordAdjustment(ctx, r, u.clock, it.ID, it.Stock, it.Stock, initialStockReason); err != nil {
				return err
			}
		}
		u.logger.Debug("menu seeded", zap.Int("items", len(items)))
		return nil
	})
}

// StockHistory returns every stock movement of a menu item, oldest first.
func (u *CatalogUsecase) StockHistory(ctx context.Context, menuItemID int64) (out []model.InventoryAdjustment, err error) {
	ctx, span := tracer.Start(ctx, "CatalogUsecase.StockHistory", trace.WithAttributes(attribute.Int64("menu_item.id", menuItemID)))
	defer func() { endSpan(span, err) }()

	if menuItemID <= 0 {
		return []model.InventoryAdjustment{}, NewHTTPError(http.StatusBadRequest, "invalid menu item id")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.MenuItems().FindByID(ctx, menuItemID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "menu item not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}

		adjs, err := r.Inventory().ListAdjustments(ctx, menuItemID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		out = adjs
		return nil
	})
	if err != nil {
		return []model.InventoryAdjustment{}, err
	}
	return out, nil
}

// 監査ログ作成（「誰が」「何を」「どの対象に」「どう変えたか」）
func (u *CatalogUsecase) audit(ctx context.Context, action model.AuditAction, rt model.AuditResourceType, id int64, beforeJSON, afterJSON string) error {
	return writeAudit(ctx, u.auditRepo, u.idGen, u.clock, action, rt, id, beforeJSON, afterJSON)
}

func writeAudit(ctx context.Context, auditRepo repo.AuditLogRepository, idGen IDGenerator, clock Clock, action model.AuditAction, rt model.AuditResourceType, id int64, beforeJSON, afterJSON string) error {
	if err := auditRepo.Create(ctx, model.AuditLog{
		ID:           idGen.NewID(),
		Actor:        actorFrom(ctx),
		Action:       action,
		ResourceType: rt,
		ResourceID:   id,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    clock.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return nil
}

const initialStockReason = "initial stock"

// 在庫の増減を履歴に残す（同じトランザクション内）
func recordAdjustment(ctx context.Context, r repo.TxRepos, clock Clock, menuItemID, delta, stockAfter int64, reason string) error {
	if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
		MenuItemID: menuItemID,
		Delta:      delta,
		StockAfter: stockAfter,
		Reason:     reason,
		Actor:      actorFrom(ctx),
		CreatedAt:  clock.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return nil
}
