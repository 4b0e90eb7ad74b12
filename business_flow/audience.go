// Package businessflow contains the business logic for the application.
package businessflow

import (
	"strings"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/dto"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/utils"
)

// Audience types supported by the broadcast composer
const (
	AudienceAll         = "all"
	AudienceActive      = "active"
	AudienceInactive    = "inactive"
	AudienceByCountry   = "by_country"
	AudienceBySpecialty = "by_specialty"
	AudienceByEmailList = "by_email_list"
)

// BuildAudienceFilter translates an audience selector into the single
// models.UserFilter consumed by both Count and the page query. Doing the
// dispatch once here means the count and the pages can never disagree about
// who is in the audience.
func BuildAudienceFilter(audience *dto.AudienceDTO) (models.UserFilter, error) {
	var filter models.UserFilter

	if audience == nil {
		return filter, NewBusinessError("INVALID_AUDIENCE", "Audience selector is required", ErrInvalidAudienceType)
	}

	switch audience.Type {
	case AudienceAll:
		// No constraints: every registered user.

	case AudienceActive:
		filter.SubscriptionStatusIn = models.ActiveSubscriptionStatuses

	case AudienceInactive:
		filter.SubscriptionStatusIn = models.InactiveSubscriptionStatuses

	case AudienceByCountry:
		if audience.Filter == nil || strings.TrimSpace(audience.Filter.Country) == "" {
			return filter, NewBusinessError("AUDIENCE_FILTER_REQUIRED", "Country is required for by_country audiences", ErrAudienceFilterNeeded)
		}
		country := strings.TrimSpace(audience.Filter.Country)
		filter.Country = &country

	case AudienceBySpecialty:
		if audience.Filter == nil || strings.TrimSpace(audience.Filter.Specialty) == "" {
			return filter, NewBusinessError("AUDIENCE_FILTER_REQUIRED", "Specialty is required for by_specialty audiences", ErrAudienceFilterNeeded)
		}
		specialty := strings.TrimSpace(audience.Filter.Specialty)
		filter.Specialty = &specialty

	case AudienceByEmailList:
		if audience.Filter == nil || len(audience.Filter.Emails) == 0 {
			return filter, NewBusinessError("AUDIENCE_EMAIL_LIST_EMPTY", "Email list must not be empty", ErrEmailListEmpty)
		}
		if len(audience.Filter.Emails) > utils.MaxEmailListSize {
			return filter, NewBusinessErrorf("AUDIENCE_EMAIL_LIST_TOO_LARGE", "Email list exceeds %d addresses", ErrEmailListTooLarge, utils.MaxEmailListSize)
		}
		filter.EmailIn = audience.Filter.Emails

	default:
		return filter, NewBusinessErrorf("INVALID_AUDIENCE", "Unknown audience type %q", ErrInvalidAudienceType, audience.Type)
	}

	return filter, nil
}
