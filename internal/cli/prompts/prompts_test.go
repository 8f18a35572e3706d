package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asteroid-belt/studydeck/internal/models"
)

func TestBuildSubjectOptions(t *testing.T) {
	options := BuildSubjectOptions()

	assert.Len(t, options, 3)
	assert.Equal(t, "maths", options[0].Value)
	assert.Equal(t, "Maths", options[0].Key)
	assert.Equal(t, "chemistry", options[2].Value)
}

func TestBuildStatusOptions(t *testing.T) {
	options := BuildStatusOptions()

	assert.Len(t, options, 3)
	assert.Equal(t, string(models.StatusNotStarted), options[0].Value)
	assert.Equal(t, string(models.StatusCompleted), options[2].Value)
}

func TestValidateName(t *testing.T) {
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.NoError(t, ValidateName("Rotational dynamics"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Question", capitalize("question"))
	assert.Equal(t, "", capitalize(""))
}
