package items

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyValue is returned by stores for an empty term or a zero limit.
	ErrEmptyValue = errors.New("unexpected empty value")

	// ErrInvalidLimit is returned for a limit that is not a non-negative integer.
	ErrInvalidLimit = errors.New("items: invalid limit")

	// ErrUnknownStore is returned for an unsupported ITEMS_STORE value.
	ErrUnknownStore = errors.New("items: unknown store backend")
)

// StatusError is returned by the search client when the items service
// answers with a status >= 400.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("items: request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsStatusError reports whether err is, or wraps, a *StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsEmptyValueError reports whether err is, or wraps, ErrEmptyValue.
func IsEmptyValueError(err error) bool {
	return errors.Is(err, ErrEmptyValue)
}
