package handler

import (
	"net/http"

	"restaurant/internal/domain/model"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// MenuItemCreateRequest は POST /menu の入力
type MenuItemCreateRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Stock    *int64          `json:"stock"`
}

// StockUpdateRequest は在庫更新の入力
type StockUpdateRequest struct {
	Stock  *int64 `json:"stock"`
	Reason string `json:"reason"`
}

type PriceUpdateRequest struct {
	Price *decimal.Decimal `json:"price"`
}

// MenuListResponse は一覧とカテゴリ別のまとめ
type MenuListResponse struct {
	Items      []model.MenuItem          `json:"items"`
	Categories []model.MenuCategoryGroup `json:"categories"`
}

// /menu
type MenuHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewMenuHandler(uc *usecase.CatalogUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

func (h *MenuHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/menu", h.list)
	e.POST("/menu", h.create)
	e.GET("/menu/:id", h.detail)
	e.DELETE("/menu/:id", h.remove)
	e.PUT("/menu/:id/stock", h.updateStock)
	e.PUT("/menu/:id/price", h.updatePrice)
	e.GET("/menu/:id/stock-history", h.stockHistory)
}

func (h *MenuHandler) list(c echo.Context) error {
	items, err := h.uc.ListItems(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MenuListResponse{
		Items:      items,
		Categories: model.GroupByCategory(items),
	})
}

func (h *MenuHandler) create(c echo.Context) error {
	var req MenuItemCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	it, err := h.uc.AddItem(c.Request().Context(), usecase.AddMenuItemInput{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Stock:    req.Stock,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, it)
}

func (h *MenuHandler) detail(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	it, err := h.uc.GetItem(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

func (h *MenuHandler) remove(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if _, err := h.uc.RemoveItem(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *MenuHandler) updateStock(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req StockUpdateRequest
	if err := c.Bind(&req); err != nil || req.Stock == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetStock(c.Request().Context(), id, *req.Stock, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *MenuHandler) updatePrice(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req PriceUpdateRequest
	if err := c.Bind(&req); err != nil || req.Price == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetPrice(c.Request().Context(), id, *req.Price); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *MenuHandler) stockHistory(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	adjs, err := h.uc.StockHistory(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, adjs)
}
