// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/google/uuid"
)

// fakeUserRepo is an in-memory UserRepository. Page applies the same
// created_at DESC, id DESC ordering as the real repository so cursor tests
// exercise stable pagination.
type fakeUserRepo struct {
	mu       sync.Mutex
	users    []*models.User
	countErr error
	pageErr  error
}

func (r *fakeUserRepo) matches(u *models.User, f models.UserFilter) bool {
	if f.ID != nil && u.ID != *f.ID {
		return false
	}
	if f.Email != nil && u.Email != *f.Email {
		return false
	}
	if f.Country != nil {
		if u.Country == nil || !strings.EqualFold(*u.Country, *f.Country) {
			return false
		}
	}
	if f.Specialty != nil {
		if u.Specialty == nil || !strings.EqualFold(*u.Specialty, *f.Specialty) {
			return false
		}
	}
	if len(f.SubscriptionStatusIn) > 0 {
		found := false
		for _, s := range f.SubscriptionStatusIn {
			if strings.EqualFold(u.SubscriptionStatus, s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.EmailIn) > 0 {
		found := false
		for _, e := range f.EmailIn {
			if strings.EqualFold(u.Email, strings.TrimSpace(e)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.IsActive != nil {
		if u.IsActive == nil || *u.IsActive != *f.IsActive {
			return false
		}
	}
	return true
}

func (r *fakeUserRepo) filtered(f models.UserFilter) []*models.User {
	var out []*models.User
	for _, u := range r.users {
		if r.matches(u, f) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *fakeUserRepo) ByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	return r.Page(ctx, filter, limit, offset)
}

func (r *fakeUserRepo) Save(ctx context.Context, entity *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, entity)
	return nil
}

func (r *fakeUserRepo) SaveBatch(ctx context.Context, entities []*models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, entities...)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeUserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.Page(ctx, models.UserFilter{Email: &email}, 1, 0)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return users[0], nil
}

func (r *fakeUserRepo) ByUUID(ctx context.Context, uuidStr string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UUID.String() == uuidStr {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Page(ctx context.Context, filter models.UserFilter, limit, offset int) ([]*models.User, error) {
	if r.pageErr != nil {
		return nil, r.pageErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.filtered(filter)
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// fakeNotificationRepo records bulk inserts and can be told to fail them
type fakeNotificationRepo struct {
	mu        sync.Mutex
	rows      []*models.Notification
	batchErr  error
	batchSize []int
}

func (r *fakeNotificationRepo) ByID(ctx context.Context, id uint) (*models.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) ByFilter(ctx context.Context, filter models.NotificationFilter, orderBy string, limit, offset int) ([]*models.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) Save(ctx context.Context, entity *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, entity)
	return nil
}

func (r *fakeNotificationRepo) SaveBatch(ctx context.Context, entities []*models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.batchErr != nil {
		return r.batchErr
	}
	r.rows = append(r.rows, entities...)
	r.batchSize = append(r.batchSize, len(entities))
	return nil
}

func (r *fakeNotificationRepo) Count(ctx context.Context, filter models.NotificationFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeNotificationRepo) Exists(ctx context.Context, filter models.NotificationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// fakeReceiptRepo enforces the (broadcast_uuid, batch_offset) unique key the
// way the database does: a second Save for the same key fails.
type fakeReceiptRepo struct {
	mu       sync.Mutex
	receipts map[string]*models.BroadcastReceipt
	nextID   uint

	// hideOnFirstLookup makes the first ByBroadcastAndOffset return nothing,
	// simulating a concurrent tick racing in between the lookup and the write.
	hideOnFirstLookup bool
	updateErr         error
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[string]*models.BroadcastReceipt)}
}

func receiptKey(broadcastUUID uuid.UUID, offset int) string {
	return fmt.Sprintf("%s:%d", broadcastUUID, offset)
}

func (r *fakeReceiptRepo) ByID(ctx context.Context, id uint) (*models.BroadcastReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.receipts {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *fakeReceiptRepo) ByFilter(ctx context.Context, filter models.BroadcastReceiptFilter, orderBy string, limit, offset int) ([]*models.BroadcastReceipt, error) {
	return nil, nil
}

func (r *fakeReceiptRepo) Save(ctx context.Context, entity *models.BroadcastReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := receiptKey(entity.BroadcastUUID, entity.BatchOffset)
	if _, exists := r.receipts[key]; exists {
		return errors.New("duplicate key value violates unique constraint \"uk_broadcast_receipts_broadcast_offset\"")
	}
	r.nextID++
	entity.ID = r.nextID
	entity.CreatedAt = time.Now().UTC()
	stored := *entity
	r.receipts[key] = &stored
	return nil
}

func (r *fakeReceiptRepo) SaveBatch(ctx context.Context, entities []*models.BroadcastReceipt) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeReceiptRepo) Count(ctx context.Context, filter models.BroadcastReceiptFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.receipts)), nil
}

func (r *fakeReceiptRepo) Exists(ctx context.Context, filter models.BroadcastReceiptFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeReceiptRepo) ByBroadcastAndOffset(ctx context.Context, broadcastUUID uuid.UUID, batchOffset int) (*models.BroadcastReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideOnFirstLookup {
		r.hideOnFirstLookup = false
		return nil, nil
	}
	rec, ok := r.receipts[receiptKey(broadcastUUID, batchOffset)]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeReceiptRepo) Update(ctx context.Context, receipt *models.BroadcastReceipt) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *receipt
	r.receipts[receiptKey(receipt.BroadcastUUID, receipt.BatchOffset)] = &stored
	return nil
}

// fakeAdminRepo holds admins keyed by username
type fakeAdminRepo struct {
	mu     sync.Mutex
	admins []*models.Admin
}

func (r *fakeAdminRepo) ByID(ctx context.Context, id uint) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	return nil, nil
}

func (r *fakeAdminRepo) Save(ctx context.Context, entity *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity.ID = uint(len(r.admins) + 1)
	r.admins = append(r.admins, entity)
	return nil
}

func (r *fakeAdminRepo) SaveBatch(ctx context.Context, entities []*models.Admin) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAdminRepo) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.admins)), nil
}

func (r *fakeAdminRepo) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeAdminRepo) ByUsername(ctx context.Context, username string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.ID == adminID {
			a.LastLoginAt = &at
			return nil
		}
	}
	return nil
}

// fakeAuditRepo records audit entries for assertions
type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (r *fakeAuditRepo) ByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	return nil, nil
}

func (r *fakeAuditRepo) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}

func (r *fakeAuditRepo) Save(ctx context.Context, entity *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entity)
	return nil
}

func (r *fakeAuditRepo) SaveBatch(ctx context.Context, entities []*models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entities...)
	return nil
}

func (r *fakeAuditRepo) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.logs)), nil
}

func (r *fakeAuditRepo) Exists(ctx context.Context, filter models.AuditLogFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeAuditRepo) ListByAdmin(ctx context.Context, adminID uint, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}

func (r *fakeAuditRepo) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, l := range r.logs {
		if l.Action == action {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, l := range r.logs {
		if l.IsFailed() {
			out = append(out, l)
		}
	}
	return out, nil
}
