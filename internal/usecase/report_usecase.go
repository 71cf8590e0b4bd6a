package usecase

import (
	"context"
	"net/http"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type ReportUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
}

func NewReportUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository) *ReportUsecase {
	return &ReportUsecase{tx: tx, auditRepo: auditRepo}
}

// 売上レポート。pending を含む全注文が対象
func (u *ReportUsecase) SalesReport(ctx context.Context) (out model.SalesReport, err error) {
	ctx, span := tracer.Start(ctx, "ReportUsecase.SalesReport")
	defer func() { endSpan(span, err) }()

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().List(ctx, repo.OrderListFilter{})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "store error")
		}
		out = model.BuildSalesReport(orders)
		return nil
	})
	if err != nil {
		return model.SalesReport{}, err
	}
	return out, nil
}

// 監査ログ一覧
func (u *ReportUsecase) AuditLogs(ctx context.Context, f repo.AuditLogFilter) (out []model.AuditLog, err error) {
	ctx, span := tracer.Start(ctx, "ReportUsecase.AuditLogs")
	defer func() { endSpan(span, err) }()

	if f.Limit < 0 || f.Limit > 200 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Offset < 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return logs, nil
}
