package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/domain/roster"
	"github.com/ganot/rollcall/internal/geo"
)

// NewTestDB creates an in-memory database with the schema applied.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is its own database, so the pool must
	// stay at a single connection.
	db.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations())

	t.Cleanup(func() { db.Close() })
	return db
}

// seedMeeting inserts a meeting row directly, bypassing the repository.
func seedMeeting(t *testing.T, db *DB, m *meeting.Meeting) {
	t.Helper()

	var token, expiry, lat, lng any
	if m.Token != "" {
		token = m.Token
	}
	if m.TokenExpiry != nil {
		expiry = m.TokenExpiry.UTC()
	}
	if m.Anchor != nil {
		lat = m.Anchor.Latitude
		lng = m.Anchor.Longitude
	}

	_, err := db.ExecContext(context.Background(), `
		INSERT INTO meetings (id, teacher_id, subject, department, semester, section,
			scheduled_start, scheduled_end, state, token, token_expiry, anchor_lat, anchor_lng)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.TeacherID, m.Subject, m.Department, m.Semester, m.Section,
		m.ScheduledStart.UTC(), m.ScheduledEnd.UTC(), m.State, token, expiry, lat, lng,
	)
	require.NoError(t, err)
}

func seedParticipant(t *testing.T, db *DB, p roster.Participant) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), `
		INSERT INTO participants (id, roll_no, name, department, semester, section)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.RollNo, p.Name, p.Department, p.Semester, p.Section,
	)
	require.NoError(t, err)
}

// idleMeeting returns a meeting with an open activation window.
func idleMeeting(id string) *meeting.Meeting {
	now := time.Now().UTC()
	return &meeting.Meeting{
		ID:             id,
		TeacherID:      "t1",
		Subject:        "Algorithms",
		Department:     "CSE",
		Semester:       4,
		Section:        "A",
		ScheduledStart: now.Add(-2 * time.Hour),
		ScheduledEnd:   now.Add(time.Hour),
		State:          meeting.StateIdle,
	}
}

// activeSessionMeeting returns a meeting mid-session with a live token.
func activeSessionMeeting(id string) *meeting.Meeting {
	m := idleMeeting(id)
	m.State = meeting.StateActive
	m.Token = "live-token"
	expiry := time.Now().UTC().Add(90 * time.Minute)
	m.TokenExpiry = &expiry
	m.Anchor = &geo.Location{Latitude: 12.9716, Longitude: 77.5946}
	return m
}
