package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/handler"
	"restaurant/internal/infra/db"
	"restaurant/internal/infra/messaging"
	infraRepo "restaurant/internal/infra/repository"
	"restaurant/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type uuidGen struct{}

func (uuidGen) NewID() string { return uuid.NewString() }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()

	txm := infraRepo.NewTxManagerMemory(db.Open())
	audit := infraRepo.NewAuditLogMemoryRepository()
	logger := zap.NewNop()

	catalog := usecase.NewCatalogUsecase(txm, audit, uuidGen{}, realClock{}, logger, model.DefaultStock)
	orders := usecase.NewOrderUsecase(txm, audit, messaging.NewNopOrderPublisher(logger), uuidGen{}, realClock{}, model.StatusPolicyForwardOnly, logger)
	reports := usecase.NewReportUsecase(txm, audit)
	require.NoError(t, catalog.Seed(context.Background(), model.DefaultMenu()))

	e := echo.New()
	handler.NewMenuHandler(catalog).RegisterRoutes(e)
	handler.NewOrderHandler(orders).RegisterRoutes(e)
	handler.NewReportHandler(reports).RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =====================
// /menu
// =====================

func TestMenuHandler_List(t *testing.T) {
	e := newEcho(t)

	rec := do(t, e, http.MethodGet, "/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[handler.MenuListResponse](t, rec)
	assert.Len(t, res.Items, 10)
	require.Len(t, res.Categories, 3)
	assert.Equal(t, "Makanan Utama", res.Categories[0].Category)

	rec = do(t, e, http.MethodGet, "/menu?category=Snack", "")
	res = decode[handler.MenuListResponse](t, rec)
	assert.Len(t, res.Items, 2)
}

func TestMenuHandler_CreateAndGet(t *testing.T) {
	e := newEcho(t)

	rec := do(t, e, http.MethodPost, "/menu", `{"name":"Rendang","price":"30000","category":"Makanan Utama","stock":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[model.MenuItem](t, rec)
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, int64(5), created.Stock)

	rec = do(t, e, http.MethodGet, "/menu/11", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.MenuItem](t, rec)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(30000)))
}

func TestMenuHandler_Create_Validation(t *testing.T) {
	e := newEcho(t)

	rec := do(t, e, http.MethodPost, "/menu", `{"name":"","price":1,"category":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name required", decode[handler.ErrorResponse](t, rec).Error)

	rec = do(t, e, http.MethodPost, "/menu", `{bad json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid body", decode[handler.ErrorResponse](t, rec).Error)
}

func TestMenuHandler_Get_NotFoundAndBadID(t *testing.T) {
	e := newEcho(t)

	rec := do(t, e, http.MethodGet, "/menu/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "menu item not found", decode[handler.ErrorResponse](t, rec).Error)

	rec = do(t, e, http.MethodGet, "/menu/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMenuHandler_StockPriceDelete(t *testing.T) {
	e := newEcho(t)

	rec := do(t, e, http.MethodPut, "/menu/5/stock", `{"stock":7,"reason":"recount"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodPut, "/menu/5/stock", `{"reason":"recount"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/menu/5/price", `{"price":"6000"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/menu/5", "")
	it := decode[model.MenuItem](t, rec)
	assert.Equal(t, int64(7), it.Stock)
	assert.True(t, it.Price.Equal(decimal.NewFromInt(6000)))

	rec = do(t, e, http.MethodGet, "/menu/5/stock-history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	adjs := decode[[]model.InventoryAdjustment](t, rec)
	require.Len(t, adjs, 2)
	assert.Equal(t, int64(-93), adjs[1].Delta)

	rec = do(t, e, http.MethodDelete, "/menu/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "deleted", decode[handler.SuccessResponse](t, rec).Message)

	rec = do(t, e, http.MethodDelete, "/menu/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =====================
// /orders
// =====================

func TestOrderHandler_Flow(t *testing.T) {
	e := newEcho(t)

	rec := do(t, e, http.MethodPost, "/orders", `{"table_number":4}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	o := decode[model.Order](t, rec)
	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, model.OrderStatusPending, o.Status)

	rec = do(t, e, http.MethodPost, "/orders/1/items", `{"menu_item_id":5,"quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	o = decode[model.Order](t, rec)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(10000)))

	// 使用中のメニューは消せない
	rec = do(t, e, http.MethodDelete, "/menu/5", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, e, http.MethodPost, "/orders/1/items", `{"menu_item_id":5,"quantity":1000}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, e, http.MethodDelete, "/orders/1/items/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	o = decode[model.Order](t, rec)
	assert.Empty(t, o.Items)

	rec = do(t, e, http.MethodDelete, "/orders/1/items/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodPut, "/orders/1/status", `{"status":"ready"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// forward-only
	rec = do(t, e, http.MethodPut, "/orders/1/status", `{"status":"pending"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, e, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]model.Order](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderStatusReady, orders[0].Status)
}

func TestOrderHandler_Errors(t *testing.T) {
	e := newEcho(t)

	rec := do(t, e, http.MethodPost, "/orders", `{"table_number":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid table number", decode[handler.ErrorResponse](t, rec).Error)

	rec = do(t, e, http.MethodGet, "/orders/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodGet, "/orders/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/orders/1/status", `{"status":"eaten"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =====================
// /reports, /audit-logs
// =====================

func TestReportHandler_Sales(t *testing.T) {
	e := newEcho(t)

	rec := do(t, e, http.MethodGet, "/reports/sales", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"average_per_order":null`)

	do(t, e, http.MethodPost, "/orders", `{"table_number":1}`)
	do(t, e, http.MethodPost, "/orders/1/items", `{"menu_item_id":1,"quantity":1}`)
	do(t, e, http.MethodPost, "/orders", `{"table_number":2}`)
	do(t, e, http.MethodPost, "/orders/2/items", `{"menu_item_id":5,"quantity":2}`)

	rec = do(t, e, http.MethodGet, "/reports/sales", "")
	require.Equal(t, http.StatusOK, rec.Code)
	r := decode[model.SalesReport](t, rec)
	assert.Equal(t, 2, r.OrderCount)
	assert.True(t, r.TotalRevenue.Equal(decimal.NewFromInt(35000)))
	require.True(t, r.AveragePerOrder.Valid)
	assert.True(t, r.AveragePerOrder.Decimal.Equal(decimal.NewFromInt(17500)))
}

func TestReportHandler_AuditLogs(t *testing.T) {
	e := newEcho(t)

	do(t, e, http.MethodPut, "/menu/3/stock", `{"stock":1,"reason":"recount"}`)
	do(t, e, http.MethodPut, "/menu/4/price", `{"price":16000}`)

	rec := do(t, e, http.MethodGet, "/audit-logs?action=UPDATE_PRICE", "")
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]model.AuditLog](t, rec)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(4), logs[0].ResourceID)

	rec = do(t, e, http.MethodGet, "/audit-logs?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/audit-logs?from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid from", decode[handler.ErrorResponse](t, rec).Error)
}
