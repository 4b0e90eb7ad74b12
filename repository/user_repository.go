// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements UserRepository interface
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User, models.UserFilter](db),
	}
}

// ByEmail retrieves a user by email address
func (r *UserRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.ByFilter(ctx, models.UserFilter{Email: &email}, "id DESC", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

// ByUUID retrieves a user by UUID
func (r *UserRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.User, error) {
	db := r.getDB(ctx)
	var user models.User
	err := db.Where("uuid = ?", uuidStr).Last(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by UUID: %w", err)
	}
	return &user, nil
}

// applyFilter builds the WHERE clause shared by ByFilter, Page and Count.
// Status matching is case-insensitive because the payments integration has
// historically written mixed-case statuses.
func (r *UserRepositoryImpl) applyFilter(db *gorm.DB, f models.UserFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.Country != nil {
		db = db.Where("LOWER(country) = LOWER(?)", *f.Country)
	}
	if f.Specialty != nil {
		db = db.Where("LOWER(specialty) = LOWER(?)", *f.Specialty)
	}
	if len(f.SubscriptionStatusIn) > 0 {
		statuses := make([]string, 0, len(f.SubscriptionStatusIn))
		for _, s := range f.SubscriptionStatusIn {
			statuses = append(statuses, strings.ToLower(s))
		}
		db = db.Where("LOWER(subscription_status) IN ?", statuses)
	}
	if len(f.EmailIn) > 0 {
		emails := make([]string, 0, len(f.EmailIn))
		for _, e := range f.EmailIn {
			emails = append(emails, strings.ToLower(strings.TrimSpace(e)))
		}
		db = db.Where("LOWER(email) IN ?", emails)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves users based on filter criteria
func (r *UserRepositoryImpl) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var users []*models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to find users by filter: %w", err)
	}
	return users, nil
}

// Page returns one batch of the audience in the stable broadcast ordering.
// The id tiebreaker keeps rows with identical created_at from swapping
// between batches.
func (r *UserRepositoryImpl) Page(ctx context.Context, filter models.UserFilter, limit, offset int) ([]*models.User, error) {
	return r.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
}

// Count returns the number of users matching the filter
func (r *UserRepositoryImpl) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.User{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// Exists checks if any user matching the filter exists
func (r *UserRepositoryImpl) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
