package domain

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// MaxNameLen is the longest space name we accept.
	MaxNameLen = 50
	// MaxLabelLen bounds "{owner}-{name}", which becomes a single DNS label.
	MaxLabelLen = 63
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateSpaceName checks a candidate space name before any network use.
// Rules run in order and stop at the first failure. Pure, no I/O.
func ValidateSpaceName(name, owner string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, MaxNameLen),
		validation.By(func(interface{}) error {
			if len(owner)+1+len(name) > MaxLabelLen {
				return validation.NewError(
					"validation_label_too_long",
					"owner and name together exceed the hostname label limit",
				)
			}
			return nil
		}),
		validation.Match(namePattern).Error("must contain only letters, digits, hyphens and underscores"),
	)
}
