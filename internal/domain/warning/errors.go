package warning

import "errors"

var (
	// ErrMissingInput indicates student id or message is absent.
	ErrMissingInput = errors.New("student id and message are required")
)
