package repository

import (
	"context"
	"sync"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

// 監査ログはストアのTxとは別のロックで持つ
type auditLogMemoryRepository struct {
	mu   sync.Mutex
	logs []model.AuditLog
}

func NewAuditLogMemoryRepository() repo.AuditLogRepository {
	return &auditLogMemoryRepository{}
}

func (r *auditLogMemoryRepository) Create(ctx context.Context, log model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, log)
	return nil
}

func (r *auditLogMemoryRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// limit/offset
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	logs := make([]model.AuditLog, 0)
	skipped := 0

	//新しい順
	for i := len(r.logs) - 1; i >= 0 && len(logs) < limit; i-- {
		l := r.logs[i]
		if filter.Action != nil && l.Action != *filter.Action {
			continue
		}
		if filter.ResourceType != nil && l.ResourceType != *filter.ResourceType {
			continue
		}
		if filter.ResourceID != nil && l.ResourceID != *filter.ResourceID {
			continue
		}
		if filter.CreatedFrom != nil && l.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && l.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}
