// Package businessflow contains the business logic for the application.
package businessflow

import (
	"testing"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/utils"
	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate(t *testing.T) {
	user := &models.User{
		Email:    "maria@example.com",
		FullName: utils.ToPtr("Maria Lopez"),
	}

	t.Run("SubstitutesNamePlaceholder", func(t *testing.T) {
		out := RenderTemplate("Hola {{nombre}}!", user)
		assert.Equal(t, "Hola Maria Lopez!", out)
	})

	t.Run("SubstitutesEmailPlaceholder", func(t *testing.T) {
		out := RenderTemplate("Sent to {{email}}", user)
		assert.Equal(t, "Sent to maria@example.com", out)
	})

	t.Run("SubstitutesBothPlaceholdersRepeatedly", func(t *testing.T) {
		out := RenderTemplate("{{nombre}} <{{email}}>: welcome {{nombre}}", user)
		assert.Equal(t, "Maria Lopez <maria@example.com>: welcome Maria Lopez", out)
	})

	t.Run("FallsBackToEmailLocalPart", func(t *testing.T) {
		noName := &models.User{Email: "carlos@example.com"}
		out := RenderTemplate("Hola {{nombre}}", noName)
		assert.Equal(t, "Hola carlos", out)
	})

	t.Run("LeavesUnknownPlaceholdersVerbatim", func(t *testing.T) {
		out := RenderTemplate("Hola {{nombr}} {{unknown}}", user)
		assert.Equal(t, "Hola {{nombr}} {{unknown}}", out)
	})

	t.Run("NilUserRendersEmpty", func(t *testing.T) {
		assert.Equal(t, "", RenderTemplate("Hola {{nombre}}", nil))
	})

	t.Run("EmptyTemplateRendersEmpty", func(t *testing.T) {
		assert.Equal(t, "", RenderTemplate("", user))
	})

	t.Run("TemplateWithoutPlaceholdersIsUntouched", func(t *testing.T) {
		out := RenderTemplate("Plain announcement", user)
		assert.Equal(t, "Plain announcement", out)
	})
}
