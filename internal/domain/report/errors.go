package report

import "errors"

var (
	// ErrMeetingNotFound indicates the meeting doesn't exist.
	ErrMeetingNotFound = errors.New("meeting not found")
	// ErrParticipantNotFound indicates the caller has no roster profile.
	ErrParticipantNotFound = errors.New("participant profile not found")
	// ErrForbidden indicates the caller is not the meeting's teacher.
	ErrForbidden = errors.New("caller is not the teacher for this meeting")
)
