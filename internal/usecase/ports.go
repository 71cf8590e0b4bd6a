package usecase

import (
	"context"
	"time"

	"restaurant/internal/domain/model"
)

// 監査ログIDの採番
type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// 注文ステータス変更の通知先（キッチン向け）
type OrderEventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChangedEvent) error
}

type actorKey struct{}

// 監査ログの操作元
const (
	ActorConsole = "console"
	ActorHTTP    = "http"
	ActorSystem  = "system"
)

// WithActor tags ctx with the surface that triggered an operation.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && v != "" {
		return v
	}
	return ActorSystem
}
