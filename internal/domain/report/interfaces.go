package report

import (
	"context"

	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/domain/roster"
)

// MeetingRepository provides meeting lookup for rollups.
type MeetingRepository interface {
	Get(ctx context.Context, id string) (*meeting.Meeting, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]meeting.Meeting, error)
	ListByCohort(ctx context.Context, department string, semester int, section string) ([]meeting.Meeting, error)
}

// LedgerRepository provides read-only ledger access. Nothing in this
// package mutates the ledger.
type LedgerRepository interface {
	ListByMeeting(ctx context.Context, meetingID string) ([]attendance.Record, error)
	ListMeetingIDsForParticipant(ctx context.Context, participantID string) ([]string, error)
}

// RosterRepository provides roster snapshots from the external roster
// collaborator.
type RosterRepository interface {
	GetParticipant(ctx context.Context, id string) (*roster.Participant, error)
	ListByCohort(ctx context.Context, department string, semester int, section string) ([]roster.Participant, error)
}
