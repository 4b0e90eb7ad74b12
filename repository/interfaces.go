// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for platform users (the broadcast audience)
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	// Page returns a stable slice of the audience ordered by created_at DESC, id DESC.
	// The same filter drives Count so pagination and totals never drift apart.
	Page(ctx context.Context, filter models.UserFilter, limit, offset int) ([]*models.User, error)
}

// NotificationRepository defines operations for in-app notifications
type NotificationRepository interface {
	Repository[models.Notification, models.NotificationFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

// BroadcastReceiptRepository defines operations for broadcast batch receipts
type BroadcastReceiptRepository interface {
	Repository[models.BroadcastReceipt, models.BroadcastReceiptFilter]
	ByBroadcastAndOffset(ctx context.Context, broadcastUUID uuid.UUID, batchOffset int) (*models.BroadcastReceipt, error)
	Update(ctx context.Context, receipt *models.BroadcastReceipt) error
}

// AdminRepository defines operations for back-office admins
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAdmin(ctx context.Context, adminID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
