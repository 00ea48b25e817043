package validator

import (
	"errors"
	"regexp"
)

var (
	IdentifierValidator = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)
	TopicValidator      = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingField     = errors.New("missing required field")
)

// ValidateIdentifier checks lowercase ids such as provider ids, which end up
// in URLs and vault keys.
func ValidateIdentifier(id string) error {
	if id == "" {
		return ErrMissingField
	}
	if !IdentifierValidator.MatchString(id) {
		return ErrInvalidInput
	}
	return nil
}

// ValidateTopic applies Kafka's topic naming rules.
func ValidateTopic(topic string) error {
	if topic == "" {
		return ErrMissingField
	}
	if len(topic) > 249 || topic == "." || topic == ".." {
		return ErrInvalidInput
	}
	if !TopicValidator.MatchString(topic) {
		return ErrInvalidInput
	}
	return nil
}
