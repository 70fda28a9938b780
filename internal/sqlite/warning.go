package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ganot/rollcall/internal/domain/warning"
	"github.com/ganot/rollcall/internal/repository"
)

// WarningRepository implements warning persistence for SQLite
type WarningRepository struct {
	db *DB
}

// NewWarningRepository creates a new WarningRepository
func NewWarningRepository(db *DB) *WarningRepository {
	return &WarningRepository{db: db}
}

// Create stores a warning
func (r *WarningRepository) Create(ctx context.Context, w *warning.Warning) error {
	query := `
		INSERT INTO warnings (id, student_id, teacher_id, meeting_id, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.StudentID, w.TeacherID, w.MeetingID, w.Message, w.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create warning: %w", err)
	}

	return nil
}

// ListByStudent returns a student's warnings, newest first
func (r *WarningRepository) ListByStudent(ctx context.Context, studentID string) ([]warning.Warning, error) {
	query := `
		SELECT id, student_id, teacher_id, meeting_id, message, created_at
		FROM warnings
		WHERE student_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	defer rows.Close()

	var warnings []warning.Warning
	for rows.Next() {
		var w warning.Warning
		var meetingID sql.NullString
		if err := rows.Scan(&w.ID, &w.StudentID, &w.TeacherID, &meetingID, &w.Message, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		if meetingID.Valid {
			w.MeetingID = &meetingID.String
		}
		warnings = append(warnings, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warnings: %w", err)
	}

	return warnings, nil
}
