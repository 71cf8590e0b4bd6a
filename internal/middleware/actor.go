package middleware

import (
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HTTP経由の操作として監査ログに残す
func ActorTag(actor string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(usecase.WithActor(req.Context(), actor)))
			return next(c)
		}
	}
}
