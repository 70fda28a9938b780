package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/repository"
)

// LedgerRepository implements attendance ledger persistence for SQLite
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Mark is the one conditional-write primitive every channel funnels into.
// The INSERT..SELECT makes session state, expiry and slot absence one
// atomic check-and-set: the row appears only if the meeting is still
// active and unexpired, and the primary key rejects a second record for
// the same participant. Marks for different participants touch different
// rows and do not serialize against each other.
func (r *LedgerRepository) Mark(ctx context.Context, rec *attendance.Record) error {
	query := `
		INSERT INTO attendance_records (meeting_id, participant_id, method, marked_at, evidence_time)
		SELECT m.id, ?, ?, ?, ?
		FROM meetings m
		WHERE m.id = ? AND m.state = ? AND m.token_expiry > ?
	`

	var evidence any
	if rec.EvidenceTime != nil {
		evidence = rec.EvidenceTime.UTC()
	}
	markedAt := rec.MarkedAt.UTC()

	result, err := r.db.ExecContext(ctx, query,
		rec.ParticipantID, rec.Method, markedAt, evidence,
		rec.MeetingID, meeting.StateActive, markedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrAlreadyExists
		}
		if isBusy(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to mark attendance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrPreconditionFailed
	}

	return nil
}

// ListByMeeting returns every attendance record for a meeting
func (r *LedgerRepository) ListByMeeting(ctx context.Context, meetingID string) ([]attendance.Record, error) {
	query := `
		SELECT meeting_id, participant_id, method, marked_at, evidence_time
		FROM attendance_records
		WHERE meeting_id = ?
		ORDER BY marked_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		var evidence sql.NullTime
		if err := rows.Scan(&rec.MeetingID, &rec.ParticipantID, &rec.Method, &rec.MarkedAt, &evidence); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		if evidence.Valid {
			t := evidence.Time
			rec.EvidenceTime = &t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance records: %w", err)
	}

	return records, nil
}

// ListMeetingIDsForParticipant returns the meetings a participant is
// marked present in
func (r *LedgerRepository) ListMeetingIDsForParticipant(ctx context.Context, participantID string) ([]string, error) {
	query := `
		SELECT meeting_id
		FROM attendance_records
		WHERE participant_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list marked meetings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan meeting id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meeting ids: %w", err)
	}

	return ids, nil
}
