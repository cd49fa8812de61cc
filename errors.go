package i18n

import "errors"

var (
	// ErrEmptyLocale is returned when a locale tag is required but empty.
	ErrEmptyLocale = errors.New("i18n: locale cannot be empty")

	// ErrNilRule is returned when a nil plural rule is registered.
	ErrNilRule = errors.New("i18n: plural rule cannot be nil")
)
