// Package models contains domain entities and business models for the admin back-office
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserDisplayName(t *testing.T) {
	name := "Maria Lopez"

	t.Run("PrefersFullName", func(t *testing.T) {
		u := &User{Email: "maria@example.com", FullName: &name}
		assert.Equal(t, "Maria Lopez", u.DisplayName())
	})

	t.Run("FallsBackToEmailLocalPart", func(t *testing.T) {
		u := &User{Email: "carlos@example.com"}
		assert.Equal(t, "carlos", u.DisplayName())
	})

	t.Run("EmptyFullNameFallsBack", func(t *testing.T) {
		empty := ""
		u := &User{Email: "ana@example.com", FullName: &empty}
		assert.Equal(t, "ana", u.DisplayName())
	})

	t.Run("MalformedEmailReturnedAsIs", func(t *testing.T) {
		u := &User{Email: "no-at-sign"}
		assert.Equal(t, "no-at-sign", u.DisplayName())
	})
}

func TestIsValidNotificationCategory(t *testing.T) {
	for _, c := range []string{NotificationCategoryCritical, NotificationCategoryImportant, NotificationCategoryNormal, NotificationCategoryPromotional} {
		assert.True(t, IsValidNotificationCategory(c), c)
	}
	assert.False(t, IsValidNotificationCategory("urgent"))
	assert.False(t, IsValidNotificationCategory(""))
}

func TestIsValidBroadcastChannel(t *testing.T) {
	for _, c := range []string{BroadcastChannelEmail, BroadcastChannelInApp, BroadcastChannelBoth} {
		assert.True(t, IsValidBroadcastChannel(c), c)
	}
	assert.False(t, IsValidBroadcastChannel("sms"))
	assert.False(t, IsValidBroadcastChannel(""))
}
