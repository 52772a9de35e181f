package repository

import (
	"context"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
)

// AuditLogRepository persists the append-only audit trail. There is
// intentionally no update or delete method.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	FindByID(ctx context.Context, id int64) (*models.AuditLog, error)
	List(ctx context.Context, params models.ListAuditLogsParams) ([]*models.AuditLog, int, error)
}
