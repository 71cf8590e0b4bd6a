package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/infra/db"
	infraRepo "restaurant/internal/infra/repository"
	repo "restaurant/internal/repository"
	"restaurant/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =====================
// Fakes / Mocks
// =====================

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("audit-%d", g.n)
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishOrderStatusChanged(ctx context.Context, ev model.OrderStatusChangedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// =====================
// Fixture
// =====================

type fixture struct {
	catalog *usecase.CatalogUsecase
	orders  *usecase.OrderUsecase
	reports *usecase.ReportUsecase
	audit   repo.AuditLogRepository
	pub     *PublisherMock
	clock   *fixedClock
}

// 初期メニュー（ID 1〜10、在庫100）入りで作る
func newFixture(t *testing.T, policy model.StatusPolicy) *fixture {
	t.Helper()

	txm := infraRepo.NewTxManagerMemory(db.Open())
	audit := infraRepo.NewAuditLogMemoryRepository()
	idGen := &seqIDGen{}
	clock := &fixedClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	pub := new(PublisherMock)
	logger := zap.NewNop()

	f := &fixture{
		catalog: usecase.NewCatalogUsecase(txm, audit, idGen, clock, logger, model.DefaultStock),
		orders:  usecase.NewOrderUsecase(txm, audit, pub, idGen, clock, policy, logger),
		reports: usecase.NewReportUsecase(txm, audit),
		audit:   audit,
		pub:     pub,
		clock:   clock,
	}
	require.NoError(t, f.catalog.Seed(context.Background(), model.DefaultMenu()))
	return f
}

// publish を気にしないテスト用
func (f *fixture) allowPublish() {
	f.pub.On("PublishOrderStatusChanged", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (f *fixture) stockOf(t *testing.T, menuItemID int64) int64 {
	t.Helper()
	it, err := f.catalog.GetItem(context.Background(), menuItemID)
	require.NoError(t, err)
	return it.Stock
}

func assertErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), substr), "error %q does not contain %q", err.Error(), substr)
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected *HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func ptr[T any](v T) *T { return &v }
