package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("google"))
	assert.NoError(t, ValidateIdentifier("my_provider-2"))
	assert.ErrorIs(t, ValidateIdentifier(""), ErrMissingField)
	assert.ErrorIs(t, ValidateIdentifier("Google"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateIdentifier("a/b"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateIdentifier(strings.Repeat("a", 64)), ErrInvalidInput)
}

func TestValidateTopic(t *testing.T) {
	assert.NoError(t, ValidateTopic("vocalia.oauth.events"))
	assert.ErrorIs(t, ValidateTopic(""), ErrMissingField)
	assert.ErrorIs(t, ValidateTopic(".."), ErrInvalidInput)
	assert.ErrorIs(t, ValidateTopic("bad topic"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateTopic(strings.Repeat("t", 250)), ErrInvalidInput)
}
