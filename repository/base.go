// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// notificationInsertChunk bounds multi-row inserts so a 500-recipient batch
// stays within Postgres parameter limits.
const notificationInsertChunk = 100

// BaseRepository carries the shared read/write plumbing for a single entity
// type. Reads honor a transaction placed in the context under TxContextKey;
// writes open their own transaction when none is present.
type BaseRepository[T any, F any] struct {
	DB *gorm.DB
}

// NewBaseRepository creates a new base repository instance
func NewBaseRepository[T any, F any](db *gorm.DB) *BaseRepository[T, F] {
	return &BaseRepository[T, F]{DB: db}
}

// getDB resolves the connection for reads, preferring an ambient transaction
func (r *BaseRepository[T, F]) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// getDBForWrite resolves the connection for writes. The returned bool is
// true when this call opened the transaction and the caller owns its
// commit or rollback.
func (r *BaseRepository[T, F]) getDBForWrite(ctx context.Context) (*gorm.DB, bool, error) {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx, false, nil
	}

	tx := r.DB.Begin()
	if tx.Error != nil {
		return nil, false, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return tx, true, nil
}

// ByID retrieves an entity by primary key, nil when no row matches
func (r *BaseRepository[T, F]) ByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.getDB(ctx).Last(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load entity %d: %w", id, err)
	}
	return &entity, nil
}

// Save inserts a new entity row
func (r *BaseRepository[T, F]) Save(ctx context.Context, entity *T) error {
	db, owned, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	err = db.Create(entity).Error
	if owned {
		err = settle(db, err)
	}
	if err != nil {
		return fmt.Errorf("save entity: %w", err)
	}
	return nil
}

// SaveBatch inserts all entities, chunked to keep statements bounded.
// A failure anywhere rolls back the whole batch when this call owns the
// transaction.
func (r *BaseRepository[T, F]) SaveBatch(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}

	db, owned, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	err = db.CreateInBatches(entities, notificationInsertChunk).Error
	if owned {
		err = settle(db, err)
	}
	if err != nil {
		return fmt.Errorf("save batch of %d: %w", len(entities), err)
	}
	return nil
}

// settle commits the transaction when err is nil, rolls it back otherwise,
// and returns the first error encountered.
func settle(tx *gorm.DB, err error) error {
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// WithTransaction runs fn with a transaction stored in the context so every
// repository call inside shares it. The transaction commits when fn returns
// nil and rolls back on error or panic.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(context.Context) error) (err error) {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", r)
		}
	}()

	if err := fn(context.WithValue(ctx, TxContextKey, tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
