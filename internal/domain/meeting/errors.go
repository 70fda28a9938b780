package meeting

import "errors"

var (
	// ErrNotFound indicates the meeting doesn't exist.
	ErrNotFound = errors.New("meeting not found")
	// ErrForbidden indicates the caller is not the meeting's teacher.
	ErrForbidden = errors.New("caller is not the teacher for this meeting")
	// ErrWindowNotOpen indicates activation was attempted outside the
	// allowed time band.
	ErrWindowNotOpen = errors.New("activation window is not open")
	// ErrInvalidState indicates the operation is incompatible with the
	// current lifecycle state.
	ErrInvalidState = errors.New("invalid session state for operation")
	// ErrMissingInput indicates a required field is absent.
	ErrMissingInput = errors.New("missing required input")
)
