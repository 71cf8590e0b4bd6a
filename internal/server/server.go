package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"restaurant/internal/handler"
	"restaurant/internal/middleware"
	"restaurant/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Handlers は登録するハンドラ一式
type Handlers struct {
	Menu   *handler.MenuHandler
	Order  *handler.OrderHandler
	Report *handler.ReportHandler
}

// New builds the echo instance with middleware and routes.
func New(h Handlers, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.ActorTag(usecase.ActorHTTP))

	RegisterRoutes(e, h)
	return e
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.SuccessResponse{Message: "ok"})
	})

	h.Menu.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.Report.RegisterRoutes(e)
}

// Start serves until ctx is done, then shuts down gracefully.
func Start(ctx context.Context, e *echo.Echo, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("http server shutting down")
	return e.Shutdown(shutdownCtx)
}
