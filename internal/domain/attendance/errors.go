package attendance

import "errors"

var (
	// ErrMeetingNotFound indicates the meeting doesn't exist.
	ErrMeetingNotFound = errors.New("meeting not found")
	// ErrForbidden indicates the caller is not the meeting's teacher.
	ErrForbidden = errors.New("caller is not the teacher for this meeting")
	// ErrSessionNotActive indicates no verification window is open.
	ErrSessionNotActive = errors.New("attendance session is not active")
	// ErrInvalidToken indicates the presented token does not match the
	// current session token.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpired indicates the session token is past its expiry.
	ErrExpired = errors.New("session token has expired")
	// ErrOutOfRange indicates the participant is outside the geofence.
	ErrOutOfRange = errors.New("not within the required location range")
	// ErrAlreadyMarked indicates the participant already has a record for
	// this meeting. Idempotent rejection, not a fault.
	ErrAlreadyMarked = errors.New("attendance already marked")
	// ErrMissingInput indicates a required field is absent.
	ErrMissingInput = errors.New("missing required input")
)
