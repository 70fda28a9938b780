package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/geo"
	"github.com/ganot/rollcall/internal/repository"
)

// MeetingRepository implements meeting persistence for SQLite
type MeetingRepository struct {
	db *DB
}

// NewMeetingRepository creates a new MeetingRepository
func NewMeetingRepository(db *DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

const meetingColumns = `
	id, teacher_id, subject, department, semester, section,
	scheduled_start, scheduled_end, state, token, token_expiry,
	anchor_lat, anchor_lng, created_at
`

// Get retrieves a meeting by ID
func (r *MeetingRepository) Get(ctx context.Context, id string) (*meeting.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	m, err := scanMeeting(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return m, nil
}

// Activate applies the whole activation in one conditional update: state,
// token, expiry and anchor change together, and only while the meeting is
// not closed. Exactly one of two racing activations observes the prior
// state; the other simply overwrites with its own token, which is the
// documented re-activation behavior.
func (r *MeetingRepository) Activate(ctx context.Context, id, token string, expiry time.Time, anchor geo.Location) error {
	query := `
		UPDATE meetings
		SET state = ?, token = ?, token_expiry = ?, anchor_lat = ?, anchor_lng = ?
		WHERE id = ? AND state <> ?
	`

	// Times are stored in UTC so the expiry comparison inside the
	// ledger's conditional insert stays chronological.
	result, err := r.db.ExecContext(ctx, query,
		meeting.StateActive, token, expiry.UTC(), anchor.Latitude, anchor.Longitude,
		id, meeting.StateClosed,
	)
	if err != nil {
		if isBusy(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to activate meeting: %w", err)
	}

	return r.checkGuard(ctx, result, id)
}

// Close transitions an active meeting to closed.
func (r *MeetingRepository) Close(ctx context.Context, id string) error {
	query := `UPDATE meetings SET state = ? WHERE id = ? AND state = ?`

	result, err := r.db.ExecContext(ctx, query, meeting.StateClosed, id, meeting.StateActive)
	if err != nil {
		if isBusy(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to close meeting: %w", err)
	}

	return r.checkGuard(ctx, result, id)
}

// ListByTeacher returns a teacher's meetings, newest first
func (r *MeetingRepository) ListByTeacher(ctx context.Context, teacherID string) ([]meeting.Meeting, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings WHERE teacher_id = ? ORDER BY scheduled_start DESC`

	return r.list(ctx, query, teacherID)
}

// ListByCohort returns meetings scheduled for a cohort, newest first
func (r *MeetingRepository) ListByCohort(ctx context.Context, department string, semester int, section string) ([]meeting.Meeting, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings WHERE department = ? AND semester = ? AND section = ?
		ORDER BY scheduled_start DESC`

	return r.list(ctx, query, department, semester, section)
}

// checkGuard distinguishes a missing row from a failed state guard after
// a zero-row conditional update.
func (r *MeetingRepository) checkGuard(ctx context.Context, result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM meetings WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check meeting: %w", err)
	}
	return repository.ErrPreconditionFailed
}

func (r *MeetingRepository) list(ctx context.Context, query string, args ...any) ([]meeting.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []meeting.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meetings: %w", err)
	}

	return meetings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*meeting.Meeting, error) {
	var m meeting.Meeting
	var token sql.NullString
	var tokenExpiry sql.NullTime
	var anchorLat, anchorLng sql.NullFloat64

	err := row.Scan(
		&m.ID,
		&m.TeacherID,
		&m.Subject,
		&m.Department,
		&m.Semester,
		&m.Section,
		&m.ScheduledStart,
		&m.ScheduledEnd,
		&m.State,
		&token,
		&tokenExpiry,
		&anchorLat,
		&anchorLng,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if token.Valid {
		m.Token = token.String
	}
	if tokenExpiry.Valid {
		expiry := tokenExpiry.Time
		m.TokenExpiry = &expiry
	}
	if anchorLat.Valid && anchorLng.Valid {
		m.Anchor = &geo.Location{Latitude: anchorLat.Float64, Longitude: anchorLng.Float64}
	}

	return &m, nil
}
