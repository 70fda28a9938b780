package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/rollcall/internal/domain/warning"
)

func TestWarningRepository_CreateAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewWarningRepository(db)
	ctx := context.Background()

	seedMeeting(t, db, idleMeeting("m1"))
	meetingID := "m1"

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &warning.Warning{
		ID: "w1", StudentID: "s1", TeacherID: "t1",
		Message: "attendance below 50%", CreatedAt: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &warning.Warning{
		ID: "w2", StudentID: "s1", TeacherID: "t1", MeetingID: &meetingID,
		Message: "missed today's session", CreatedAt: now,
	}))
	require.NoError(t, repo.Create(ctx, &warning.Warning{
		ID: "w3", StudentID: "s2", TeacherID: "t1",
		Message: "other student", CreatedAt: now,
	}))

	list, err := repo.ListByStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	require.Equal(t, "w2", list[0].ID)
	require.NotNil(t, list[0].MeetingID)
	require.Equal(t, "m1", *list[0].MeetingID)
	require.Equal(t, "w1", list[1].ID)
	require.Nil(t, list[1].MeetingID)
}

func TestWarningRepository_ListByStudent_Empty(t *testing.T) {
	repo := NewWarningRepository(NewTestDB(t))

	list, err := repo.ListByStudent(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, list)
}
