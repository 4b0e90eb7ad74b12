// Package businessflow contains the business logic for the application.
package businessflow

import (
	"strings"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
)

// RenderTemplate substitutes the personalization placeholders supported by the
// broadcast composer into a message template. {{nombre}} becomes the user's
// display name and {{email}} the email address. Unknown placeholders are left
// verbatim so typos are visible in the delivered message instead of silently
// dropped. Admin input is trusted; no HTML escaping is applied.
func RenderTemplate(template string, user *models.User) string {
	if user == nil || template == "" {
		return ""
	}

	r := strings.NewReplacer(
		"{{nombre}}", user.DisplayName(),
		"{{email}}", user.Email,
	)
	return r.Replace(template)
}
