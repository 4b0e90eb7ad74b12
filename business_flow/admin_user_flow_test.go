// Package businessflow contains the business logic for the application.
package businessflow

import (
	"bytes"
	"context"
	"testing"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/dto"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestListUsers(t *testing.T) {
	users := makeTestUsers(7, models.SubscriptionStatusActive)
	country := "Mexico"
	users[0].Country = &country
	users[2].Country = &country
	users[4].SubscriptionStatus = models.SubscriptionStatusCanceled
	userRepo := &fakeUserRepo{users: users}
	auditRepo := &fakeAuditRepo{}
	flow := NewAdminUserFlow(userRepo, auditRepo)

	t.Run("DefaultPagination", func(t *testing.T) {
		resp, err := flow.ListUsers(context.Background(), &dto.ListUsersRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 50, resp.PageSize)
		assert.Len(t, resp.Users, 7)
	})

	t.Run("SecondPage", func(t *testing.T) {
		resp, err := flow.ListUsers(context.Background(), &dto.ListUsersRequest{Page: 2, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.Total)
		assert.Equal(t, 2, resp.Page)
		assert.Len(t, resp.Users, 3)
	})

	t.Run("FilterByCountry", func(t *testing.T) {
		resp, err := flow.ListUsers(context.Background(), &dto.ListUsersRequest{Country: "mexico"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
		assert.Len(t, resp.Users, 2)
	})

	t.Run("FilterBySubscriptionStatus", func(t *testing.T) {
		resp, err := flow.ListUsers(context.Background(), &dto.ListUsersRequest{SubscriptionStatus: models.SubscriptionStatusCanceled})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
	})

	t.Run("InvalidPage", func(t *testing.T) {
		_, err := flow.ListUsers(context.Background(), &dto.ListUsersRequest{Page: -1})
		require.Error(t, err)
		assert.True(t, IsInvalidPage(err))
	})

	t.Run("InvalidPageSize", func(t *testing.T) {
		_, err := flow.ListUsers(context.Background(), &dto.ListUsersRequest{PageSize: 101})
		require.Error(t, err)
		assert.True(t, IsInvalidPageSize(err))
	})
}

func TestExportUsers(t *testing.T) {
	users := makeTestUsers(3, models.SubscriptionStatusActive)
	userRepo := &fakeUserRepo{users: users}
	auditRepo := &fakeAuditRepo{}
	flow := NewAdminUserFlow(userRepo, auditRepo)
	metadata := NewClientMetadata("127.0.0.1", "test-agent")

	filename, content, err := flow.ExportUsers(context.Background(), &dto.ListUsersRequest{}, metadata)
	require.NoError(t, err)
	assert.Equal(t, "users_export.xlsx", filename)
	require.NotEmpty(t, content)

	// The produced workbook opens and holds a header row plus one row per user.
	xl, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows("users")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "email", rows[0][2])
	for _, row := range rows[1:] {
		assert.Contains(t, row[2], "@example.com")
		assert.Equal(t, models.SubscriptionStatusActive, row[6])
	}

	// The export is audited.
	logs, err := auditRepo.ListByAction(context.Background(), models.AuditActionUsersExported, 0, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, *logs[0].Description, "3 users exported")
}
