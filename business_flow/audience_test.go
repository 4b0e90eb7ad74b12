// Package businessflow contains the business logic for the application.
package businessflow

import (
	"testing"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/dto"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAudienceFilter(t *testing.T) {
	t.Run("All", func(t *testing.T) {
		filter, err := BuildAudienceFilter(&dto.AudienceDTO{Type: AudienceAll})
		require.NoError(t, err)
		assert.Equal(t, models.UserFilter{}, filter)
	})

	t.Run("Active", func(t *testing.T) {
		filter, err := BuildAudienceFilter(&dto.AudienceDTO{Type: AudienceActive})
		require.NoError(t, err)
		assert.Equal(t, models.ActiveSubscriptionStatuses, filter.SubscriptionStatusIn)
	})

	t.Run("Inactive", func(t *testing.T) {
		filter, err := BuildAudienceFilter(&dto.AudienceDTO{Type: AudienceInactive})
		require.NoError(t, err)
		assert.Equal(t, models.InactiveSubscriptionStatuses, filter.SubscriptionStatusIn)
	})

	t.Run("ByCountry", func(t *testing.T) {
		filter, err := BuildAudienceFilter(&dto.AudienceDTO{
			Type:   AudienceByCountry,
			Filter: &dto.AudienceFilterDTO{Country: "  Spain "},
		})
		require.NoError(t, err)
		require.NotNil(t, filter.Country)
		assert.Equal(t, "Spain", *filter.Country)
	})

	t.Run("ByCountryWithoutFilter", func(t *testing.T) {
		_, err := BuildAudienceFilter(&dto.AudienceDTO{Type: AudienceByCountry})
		require.Error(t, err)
		assert.True(t, IsAudienceFilterNeeded(err))
	})

	t.Run("ByCountryWithBlankCountry", func(t *testing.T) {
		_, err := BuildAudienceFilter(&dto.AudienceDTO{
			Type:   AudienceByCountry,
			Filter: &dto.AudienceFilterDTO{Country: "   "},
		})
		require.Error(t, err)
		assert.True(t, IsAudienceFilterNeeded(err))
	})

	t.Run("BySpecialty", func(t *testing.T) {
		filter, err := BuildAudienceFilter(&dto.AudienceDTO{
			Type:   AudienceBySpecialty,
			Filter: &dto.AudienceFilterDTO{Specialty: "dermatology"},
		})
		require.NoError(t, err)
		require.NotNil(t, filter.Specialty)
		assert.Equal(t, "dermatology", *filter.Specialty)
	})

	t.Run("BySpecialtyWithoutFilter", func(t *testing.T) {
		_, err := BuildAudienceFilter(&dto.AudienceDTO{Type: AudienceBySpecialty})
		require.Error(t, err)
		assert.True(t, IsAudienceFilterNeeded(err))
	})

	t.Run("ByEmailList", func(t *testing.T) {
		emails := []string{"a@example.com", "b@example.com"}
		filter, err := BuildAudienceFilter(&dto.AudienceDTO{
			Type:   AudienceByEmailList,
			Filter: &dto.AudienceFilterDTO{Emails: emails},
		})
		require.NoError(t, err)
		assert.Equal(t, emails, filter.EmailIn)
	})

	t.Run("ByEmailListEmpty", func(t *testing.T) {
		_, err := BuildAudienceFilter(&dto.AudienceDTO{
			Type:   AudienceByEmailList,
			Filter: &dto.AudienceFilterDTO{},
		})
		require.Error(t, err)
		assert.True(t, IsEmailListEmpty(err))
	})

	t.Run("ByEmailListTooLarge", func(t *testing.T) {
		emails := make([]string, 10001)
		for i := range emails {
			emails[i] = "user@example.com"
		}
		_, err := BuildAudienceFilter(&dto.AudienceDTO{
			Type:   AudienceByEmailList,
			Filter: &dto.AudienceFilterDTO{Emails: emails},
		})
		require.Error(t, err)
		assert.True(t, IsEmailListTooLarge(err))
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := BuildAudienceFilter(&dto.AudienceDTO{Type: "everyone"})
		require.Error(t, err)
		assert.True(t, IsInvalidAudienceType(err))
	})

	t.Run("NilAudience", func(t *testing.T) {
		_, err := BuildAudienceFilter(nil)
		require.Error(t, err)
		assert.True(t, IsInvalidAudienceType(err))
	})
}
