// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BroadcastReceiptRepositoryImpl implements BroadcastReceiptRepository interface
type BroadcastReceiptRepositoryImpl struct {
	*BaseRepository[models.BroadcastReceipt, models.BroadcastReceiptFilter]
}

// NewBroadcastReceiptRepository creates a new broadcast receipt repository
func NewBroadcastReceiptRepository(db *gorm.DB) BroadcastReceiptRepository {
	return &BroadcastReceiptRepositoryImpl{
		BaseRepository: NewBaseRepository[models.BroadcastReceipt, models.BroadcastReceiptFilter](db),
	}
}

// ByBroadcastAndOffset retrieves the receipt for one tick of a broadcast.
// Returns nil when the (broadcast, offset) pair has not been processed yet.
func (r *BroadcastReceiptRepositoryImpl) ByBroadcastAndOffset(ctx context.Context, broadcastUUID uuid.UUID, batchOffset int) (*models.BroadcastReceipt, error) {
	rows, err := r.ByFilter(ctx, models.BroadcastReceiptFilter{
		BroadcastUUID: &broadcastUUID,
		BatchOffset:   &batchOffset,
	}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *BroadcastReceiptRepositoryImpl) applyFilter(db *gorm.DB, f models.BroadcastReceiptFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.BroadcastUUID != nil {
		db = db.Where("broadcast_uuid = ?", *f.BroadcastUUID)
	}
	if f.BatchOffset != nil {
		db = db.Where("batch_offset = ?", *f.BatchOffset)
	}
	if f.Channel != nil {
		db = db.Where("channel = ?", *f.Channel)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves receipts based on filter criteria
func (r *BroadcastReceiptRepositoryImpl) ByFilter(ctx context.Context, filter models.BroadcastReceiptFilter, orderBy string, limit, offset int) ([]*models.BroadcastReceipt, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.BroadcastReceipt{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.BroadcastReceipt
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find broadcast receipts by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of receipts matching the filter
func (r *BroadcastReceiptRepositoryImpl) Count(ctx context.Context, filter models.BroadcastReceiptFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.BroadcastReceipt{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count broadcast receipts: %w", err)
	}
	return count, nil
}

// Exists checks if any receipt matching the filter exists
func (r *BroadcastReceiptRepositoryImpl) Exists(ctx context.Context, filter models.BroadcastReceiptFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists delivery outcome fields onto an existing receipt
func (r *BroadcastReceiptRepositoryImpl) Update(ctx context.Context, receipt *models.BroadcastReceipt) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}
	err = db.Save(receipt).Error
	if err != nil {
		return fmt.Errorf("failed to update broadcast receipt: %w", err)
	}
	return nil
}
