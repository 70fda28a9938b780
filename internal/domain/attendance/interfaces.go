package attendance

import (
	"context"

	"github.com/ganot/rollcall/internal/domain/meeting"
)

// MeetingRepository provides meeting lookup for channel validation.
type MeetingRepository interface {
	Get(ctx context.Context, id string) (*meeting.Meeting, error)
}

// LedgerRepository provides the per-participant conditional write. Mark
// must be atomic: it succeeds only if, in the same operation, the meeting
// is still active and unexpired and the participant has no record yet.
// Occupied slot → repository.ErrAlreadyExists; failed session guard →
// repository.ErrPreconditionFailed; contention → repository.ErrConflict.
// Marks for different participants must not serialize against each other.
type LedgerRepository interface {
	Mark(ctx context.Context, rec *Record) error
	ListByMeeting(ctx context.Context, meetingID string) ([]Record, error)
}

// RosterResolver maps external identifiers to participant identities.
// Supplied by the roster collaborator; misses are reported as
// repository.ErrNotFound rather than failures.
type RosterResolver interface {
	ResolveRollNo(ctx context.Context, rollNo string) (participantID string, err error)
}
