package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/domain/roster"
	"github.com/ganot/rollcall/internal/domain/warning"
	"github.com/ganot/rollcall/internal/geo"
)

// MeetingRepository is a mock for the meeting repositories consumed by
// the domain services.
type MeetingRepository struct {
	mock.Mock
}

func (m *MeetingRepository) Get(ctx context.Context, id string) (*meeting.Meeting, error) {
	args := m.Called(ctx, id)
	if mt, ok := args.Get(0).(*meeting.Meeting); ok {
		return mt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MeetingRepository) Activate(ctx context.Context, id, token string, expiry time.Time, anchor geo.Location) error {
	args := m.Called(ctx, id, token, expiry, anchor)
	return args.Error(0)
}

func (m *MeetingRepository) Close(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MeetingRepository) ListByTeacher(ctx context.Context, teacherID string) ([]meeting.Meeting, error) {
	args := m.Called(ctx, teacherID)
	if list, ok := args.Get(0).([]meeting.Meeting); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MeetingRepository) ListByCohort(ctx context.Context, department string, semester int, section string) ([]meeting.Meeting, error) {
	args := m.Called(ctx, department, semester, section)
	if list, ok := args.Get(0).([]meeting.Meeting); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// LedgerRepository is a mock for the attendance ledger.
type LedgerRepository struct {
	mock.Mock
}

func (m *LedgerRepository) Mark(ctx context.Context, rec *attendance.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *LedgerRepository) ListByMeeting(ctx context.Context, meetingID string) ([]attendance.Record, error) {
	args := m.Called(ctx, meetingID)
	if list, ok := args.Get(0).([]attendance.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerRepository) ListMeetingIDsForParticipant(ctx context.Context, participantID string) ([]string, error) {
	args := m.Called(ctx, participantID)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// RosterRepository is a mock for the roster collaborator.
type RosterRepository struct {
	mock.Mock
}

func (m *RosterRepository) ResolveRollNo(ctx context.Context, rollNo string) (string, error) {
	args := m.Called(ctx, rollNo)
	return args.String(0), args.Error(1)
}

func (m *RosterRepository) GetParticipant(ctx context.Context, id string) (*roster.Participant, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*roster.Participant); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RosterRepository) ListByCohort(ctx context.Context, department string, semester int, section string) ([]roster.Participant, error) {
	args := m.Called(ctx, department, semester, section)
	if list, ok := args.Get(0).([]roster.Participant); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// WarningRepository is a mock for warning persistence.
type WarningRepository struct {
	mock.Mock
}

func (m *WarningRepository) Create(ctx context.Context, w *warning.Warning) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *WarningRepository) ListByStudent(ctx context.Context, studentID string) ([]warning.Warning, error) {
	args := m.Called(ctx, studentID)
	if list, ok := args.Get(0).([]warning.Warning); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// QRRenderer is a mock for the external token renderer.
type QRRenderer struct {
	mock.Mock
}

func (m *QRRenderer) DataURL(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}
