// Package testing provides test utilities and database setup for integration tests
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures creates domain entities for integration tests
type TestFixtures struct {
	testDB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(testDB *TestDB) *TestFixtures {
	return &TestFixtures{testDB: testDB}
}

// UserOption mutates a user fixture before it is persisted
type UserOption func(*models.User)

// WithCountry sets the user's country
func WithCountry(country string) UserOption {
	return func(u *models.User) { u.Country = &country }
}

// WithSpecialty sets the user's specialty
func WithSpecialty(specialty string) UserOption {
	return func(u *models.User) { u.Specialty = &specialty }
}

// WithSubscriptionStatus sets the user's subscription status
func WithSubscriptionStatus(status string) UserOption {
	return func(u *models.User) { u.SubscriptionStatus = status }
}

// CreateTestUser persists one platform user with a unique email
func (f *TestFixtures) CreateTestUser(opts ...UserOption) (*models.User, error) {
	suffix := fmt.Sprintf("%d%04d", time.Now().UnixNano(), rand.Intn(10000))
	name := "Test User " + suffix

	user := &models.User{
		UUID:               uuid.New(),
		Email:              fmt.Sprintf("user%s@example.com", suffix),
		FullName:           &name,
		SubscriptionStatus: models.SubscriptionStatusActive,
		IsActive:           utils.ToPtr(true),
		CreatedAt:          utils.UTCNow(),
		UpdatedAt:          utils.UTCNow(),
	}
	for _, opt := range opts {
		opt(user)
	}

	if err := f.testDB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// CreateTestUsers persists n users sharing the given options
func (f *TestFixtures) CreateTestUsers(n int, opts ...UserOption) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := f.CreateTestUser(opts...)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CreateTestAdmin persists one back-office admin with the given password
func (f *TestFixtures) CreateTestAdmin(username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash test admin password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.AdminRoleAdmin,
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := f.testDB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return admin, nil
}
