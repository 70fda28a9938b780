package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/repository"
)

func TestLedgerRepository_Mark(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	seedMeeting(t, db, activeSessionMeeting("m1"))

	err := repo.Mark(ctx, &attendance.Record{
		MeetingID:     "m1",
		ParticipantID: "s1",
		Method:        attendance.MethodTokenScan,
		MarkedAt:      time.Now(),
	})
	require.NoError(t, err)

	records, err := repo.ListByMeeting(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "s1", records[0].ParticipantID)
	require.Equal(t, attendance.MethodTokenScan, records[0].Method)
	require.Nil(t, records[0].EvidenceTime)
}

func TestLedgerRepository_Mark_DuplicateKeepsFirstWriter(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	seedMeeting(t, db, activeSessionMeeting("m1"))

	first := time.Now().Add(-time.Minute)
	require.NoError(t, repo.Mark(ctx, &attendance.Record{
		MeetingID:     "m1",
		ParticipantID: "s1",
		Method:        attendance.MethodTokenScan,
		MarkedAt:      first,
	}))

	err := repo.Mark(ctx, &attendance.Record{
		MeetingID:     "m1",
		ParticipantID: "s1",
		Method:        attendance.MethodManualOverride,
		MarkedAt:      time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)

	records, err := repo.ListByMeeting(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, attendance.MethodTokenScan, records[0].Method)
	require.WithinDuration(t, first, records[0].MarkedAt, time.Second)
}

func TestLedgerRepository_Mark_InactiveMeeting(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLedgerRepository(db)

	seedMeeting(t, db, idleMeeting("m1"))

	err := repo.Mark(context.Background(), &attendance.Record{
		MeetingID:     "m1",
		ParticipantID: "s1",
		Method:        attendance.MethodTokenScan,
		MarkedAt:      time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrPreconditionFailed)
}

func TestLedgerRepository_Mark_ExpiredToken(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLedgerRepository(db)

	m := activeSessionMeeting("m1")
	expired := time.Now().UTC().Add(-time.Minute)
	m.TokenExpiry = &expired
	seedMeeting(t, db, m)

	err := repo.Mark(context.Background(), &attendance.Record{
		MeetingID:     "m1",
		ParticipantID: "s1",
		Method:        attendance.MethodManualOverride,
		MarkedAt:      time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrPreconditionFailed)
}

func TestLedgerRepository_Mark_UnknownMeeting(t *testing.T) {
	repo := NewLedgerRepository(NewTestDB(t))

	err := repo.Mark(context.Background(), &attendance.Record{
		MeetingID:     "missing",
		ParticipantID: "s1",
		Method:        attendance.MethodTokenScan,
		MarkedAt:      time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrPreconditionFailed)
}

func TestLedgerRepository_Mark_IndependentParticipants(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	seedMeeting(t, db, activeSessionMeeting("m1"))

	for _, participant := range []string{"s1", "s2", "s3"} {
		err := repo.Mark(ctx, &attendance.Record{
			MeetingID:     "m1",
			ParticipantID: participant,
			Method:        attendance.MethodTokenScan,
			MarkedAt:      time.Now(),
		})
		require.NoError(t, err)
	}

	records, err := repo.ListByMeeting(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, records, 3)
}

// Racing marks for the same participant must produce exactly one row,
// with every loser seeing the duplicate.
func TestLedgerRepository_Mark_ConcurrentSameParticipant(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	seedMeeting(t, db, activeSessionMeeting("m1"))

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Mark(ctx, &attendance.Record{
				MeetingID:     "m1",
				ParticipantID: "s1",
				Method:        attendance.MethodTokenScan,
				MarkedAt:      time.Now(),
			})
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, repository.ErrAlreadyExists):
		case errors.Is(err, repository.ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)

	records, err := repo.ListByMeeting(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestLedgerRepository_EvidenceTimeRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	seedMeeting(t, db, activeSessionMeeting("m1"))

	evidence := time.Now().UTC().Add(-5 * time.Minute)
	require.NoError(t, repo.Mark(ctx, &attendance.Record{
		MeetingID:     "m1",
		ParticipantID: "s1",
		Method:        attendance.MethodBatchRecognition,
		MarkedAt:      time.Now(),
		EvidenceTime:  &evidence,
	}))

	records, err := repo.ListByMeeting(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].EvidenceTime)
	require.WithinDuration(t, evidence, *records[0].EvidenceTime, time.Second)
}

func TestLedgerRepository_ListMeetingIDsForParticipant(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	seedMeeting(t, db, activeSessionMeeting("m1"))
	seedMeeting(t, db, activeSessionMeeting("m2"))

	for _, meetingID := range []string{"m1", "m2"} {
		require.NoError(t, repo.Mark(ctx, &attendance.Record{
			MeetingID:     meetingID,
			ParticipantID: "s1",
			Method:        attendance.MethodTokenScan,
			MarkedAt:      time.Now(),
		}))
	}

	ids, err := repo.ListMeetingIDsForParticipant(ctx, "s1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"m1", "m2"}, ids)

	ids, err = repo.ListMeetingIDsForParticipant(ctx, "s2")
	require.NoError(t, err)
	require.Empty(t, ids)
}
