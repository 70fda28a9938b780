package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/geo"
	"github.com/ganot/rollcall/internal/identity"
	"github.com/ganot/rollcall/internal/repository"
	"github.com/ganot/rollcall/internal/repository/mocks"
)

var (
	teacher = identity.Identity{UserID: "t1", Role: identity.RoleTeacher}
	student = identity.Identity{UserID: "s1", Role: identity.RoleStudent}
	anchor  = geo.Location{Latitude: 12.9716, Longitude: 77.5946}
)

// activeMeeting returns a meeting in an active session with a live token.
func activeMeeting() *meeting.Meeting {
	now := time.Now()
	expiry := now.Add(time.Hour)
	return &meeting.Meeting{
		ID:             "m1",
		TeacherID:      "t1",
		Subject:        "Algorithms",
		ScheduledStart: now.Add(-2 * time.Hour),
		ScheduledEnd:   now.Add(30 * time.Minute),
		State:          meeting.StateActive,
		Token:          "live-token",
		TokenExpiry:    &expiry,
		Anchor:         &anchor,
	}
}

func newService(meetings *mocks.MeetingRepository, ledger *mocks.LedgerRepository, roster *mocks.RosterRepository) *attendance.Service {
	return attendance.NewService(meetings, ledger, roster, nil)
}

func TestMarkByToken_Success(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	ledger := &mocks.LedgerRepository{}

	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)
	ledger.On("Mark", ctx, mock.MatchedBy(func(rec *attendance.Record) bool {
		return rec.MeetingID == "m1" &&
			rec.ParticipantID == "s1" &&
			rec.Method == attendance.MethodTokenScan
	})).Return(nil)

	svc := newService(meetings, ledger, nil)
	err := svc.MarkByToken(ctx, student, "m1", "live-token", &anchor)
	require.NoError(t, err)
	ledger.AssertExpectations(t)
}

func TestMarkByToken_StaleTokenReportsInvalidNotExpired(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}

	// Token is both wrong and expired. The mismatch must win.
	m := activeMeeting()
	expired := time.Now().Add(-time.Minute)
	m.TokenExpiry = &expired
	meetings.On("Get", ctx, "m1").Return(m, nil)

	svc := newService(meetings, nil, nil)
	err := svc.MarkByToken(ctx, student, "m1", "old-token", &anchor)
	require.ErrorIs(t, err, attendance.ErrInvalidToken)
}

func TestMarkByToken_Expired(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}

	m := activeMeeting()
	expired := time.Now().Add(-time.Minute)
	m.TokenExpiry = &expired
	meetings.On("Get", ctx, "m1").Return(m, nil)

	svc := newService(meetings, nil, nil)
	err := svc.MarkByToken(ctx, student, "m1", "live-token", &anchor)
	require.ErrorIs(t, err, attendance.ErrExpired)
}

func TestMarkByToken_OutsideGeofence(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)

	far := geo.Location{Latitude: anchor.Latitude + 0.001, Longitude: anchor.Longitude}
	svc := newService(meetings, nil, nil)
	err := svc.MarkByToken(ctx, student, "m1", "live-token", &far)
	require.ErrorIs(t, err, attendance.ErrOutOfRange)
}

func TestMarkByToken_MissingLocation(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)

	svc := newService(meetings, nil, nil)
	err := svc.MarkByToken(ctx, student, "m1", "live-token", nil)
	require.ErrorIs(t, err, attendance.ErrOutOfRange)
}

func TestMarkByToken_SessionNotActive(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}

	m := activeMeeting()
	m.State = meeting.StateIdle
	meetings.On("Get", ctx, "m1").Return(m, nil)

	svc := newService(meetings, nil, nil)
	err := svc.MarkByToken(ctx, student, "m1", "live-token", &anchor)
	require.ErrorIs(t, err, attendance.ErrSessionNotActive)
}

func TestMarkByToken_EmptyToken(t *testing.T) {
	svc := newService(&mocks.MeetingRepository{}, nil, nil)
	err := svc.MarkByToken(context.Background(), student, "m1", "", &anchor)
	require.ErrorIs(t, err, attendance.ErrMissingInput)
}

func TestMarkByToken_AlreadyMarked(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	ledger := &mocks.LedgerRepository{}

	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)
	ledger.On("Mark", ctx, mock.Anything).Return(repository.ErrAlreadyExists)

	svc := newService(meetings, ledger, nil)
	err := svc.MarkByToken(ctx, student, "m1", "live-token", &anchor)
	require.ErrorIs(t, err, attendance.ErrAlreadyMarked)
}

func TestMarkByToken_SessionFlippedDuringWrite(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	ledger := &mocks.LedgerRepository{}

	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)
	ledger.On("Mark", ctx, mock.Anything).Return(repository.ErrPreconditionFailed)

	svc := newService(meetings, ledger, nil)
	err := svc.MarkByToken(ctx, student, "m1", "live-token", &anchor)
	require.ErrorIs(t, err, attendance.ErrSessionNotActive)
}

func TestManualMark_Success(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	ledger := &mocks.LedgerRepository{}

	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)
	ledger.On("Mark", ctx, mock.MatchedBy(func(rec *attendance.Record) bool {
		return rec.ParticipantID == "s7" && rec.Method == attendance.MethodManualOverride
	})).Return(nil)

	svc := newService(meetings, ledger, nil)
	require.NoError(t, svc.ManualMark(ctx, teacher, "m1", "s7"))
	ledger.AssertExpectations(t)
}

func TestManualMark_Forbidden(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)

	svc := newService(meetings, nil, nil)
	other := identity.Identity{UserID: "t2", Role: identity.RoleTeacher}
	err := svc.ManualMark(ctx, other, "m1", "s7")
	require.ErrorIs(t, err, attendance.ErrForbidden)
}

func TestManualMark_MeetingNotFound(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	meetings.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	svc := newService(meetings, nil, nil)
	err := svc.ManualMark(ctx, teacher, "missing", "s7")
	require.ErrorIs(t, err, attendance.ErrMeetingNotFound)
}

func TestMarkByBatch_PartialFailures(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	ledger := &mocks.LedgerRepository{}
	roster := &mocks.RosterRepository{}

	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)
	roster.On("ResolveRollNo", ctx, "R1").Return("s1", nil)
	roster.On("ResolveRollNo", ctx, "R2").Return("", repository.ErrNotFound)
	roster.On("ResolveRollNo", ctx, "R3").Return("s3", nil)

	ledger.On("Mark", ctx, mock.MatchedBy(func(rec *attendance.Record) bool {
		return rec.ParticipantID == "s1"
	})).Return(nil)
	// s3 was already marked through another channel.
	ledger.On("Mark", ctx, mock.MatchedBy(func(rec *attendance.Record) bool {
		return rec.ParticipantID == "s3"
	})).Return(repository.ErrAlreadyExists)

	seen := time.Now()
	svc := newService(meetings, ledger, roster)
	result, err := svc.MarkByBatch(ctx, teacher, "m1", []attendance.BatchEntry{
		{RollNo: "R1", EvidenceTime: seen},
		{RollNo: "R2", EvidenceTime: seen},
		{RollNo: "R3", EvidenceTime: seen},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.MarkedCount)
	require.Equal(t, []string{"R2"}, result.NotFound)
}

func TestMarkByBatch_SkipsBlankEntries(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	ledger := &mocks.LedgerRepository{}
	roster := &mocks.RosterRepository{}

	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)

	svc := newService(meetings, ledger, roster)
	result, err := svc.MarkByBatch(ctx, teacher, "m1", []attendance.BatchEntry{
		{RollNo: "", EvidenceTime: time.Now()},
		{RollNo: "R1"},
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.MarkedCount)
	require.Empty(t, result.NotFound)
	roster.AssertNotCalled(t, "ResolveRollNo", mock.Anything, mock.Anything)
}

func TestMarkByBatch_OneFailureDoesNotAbortRest(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}
	ledger := &mocks.LedgerRepository{}
	roster := &mocks.RosterRepository{}

	meetings.On("Get", ctx, "m1").Return(activeMeeting(), nil)
	roster.On("ResolveRollNo", ctx, "R1").Return("s1", nil)
	roster.On("ResolveRollNo", ctx, "R2").Return("s2", nil)

	ledger.On("Mark", ctx, mock.MatchedBy(func(rec *attendance.Record) bool {
		return rec.ParticipantID == "s1"
	})).Return(errors.New("disk full"))
	ledger.On("Mark", ctx, mock.MatchedBy(func(rec *attendance.Record) bool {
		return rec.ParticipantID == "s2"
	})).Return(nil)

	seen := time.Now()
	svc := newService(meetings, ledger, roster)
	result, err := svc.MarkByBatch(ctx, teacher, "m1", []attendance.BatchEntry{
		{RollNo: "R1", EvidenceTime: seen},
		{RollNo: "R2", EvidenceTime: seen},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.MarkedCount)
}

func TestMarkByBatch_Expired(t *testing.T) {
	ctx := context.Background()
	meetings := &mocks.MeetingRepository{}

	m := activeMeeting()
	expired := time.Now().Add(-time.Minute)
	m.TokenExpiry = &expired
	meetings.On("Get", ctx, "m1").Return(m, nil)

	svc := newService(meetings, nil, nil)
	_, err := svc.MarkByBatch(ctx, teacher, "m1", []attendance.BatchEntry{{RollNo: "R1", EvidenceTime: time.Now()}})
	require.ErrorIs(t, err, attendance.ErrExpired)
}
