package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ganot/rollcall/internal/domain/roster"
	"github.com/ganot/rollcall/internal/repository"
)

// RosterRepository reads the participant snapshot. It backs both the
// batch channel's roll-number resolution and the report rollups.
type RosterRepository struct {
	db *DB
}

// NewRosterRepository creates a new RosterRepository
func NewRosterRepository(db *DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// ResolveRollNo maps an external roll number to a participant identity
func (r *RosterRepository) ResolveRollNo(ctx context.Context, rollNo string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM participants WHERE roll_no = ?`, rollNo,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve roll number: %w", err)
	}
	return id, nil
}

// GetParticipant retrieves a participant by ID
func (r *RosterRepository) GetParticipant(ctx context.Context, id string) (*roster.Participant, error) {
	query := `
		SELECT id, roll_no, name, department, semester, section
		FROM participants
		WHERE id = ?
	`

	var p roster.Participant
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.RollNo, &p.Name, &p.Department, &p.Semester, &p.Section,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

// ListByCohort returns every participant in a cohort, ordered by roll
// number
func (r *RosterRepository) ListByCohort(ctx context.Context, department string, semester int, section string) ([]roster.Participant, error) {
	query := `
		SELECT id, roll_no, name, department, semester, section
		FROM participants
		WHERE department = ? AND semester = ? AND section = ?
		ORDER BY roll_no ASC
	`

	rows, err := r.db.QueryContext(ctx, query, department, semester, section)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []roster.Participant
	for rows.Next() {
		var p roster.Participant
		if err := rows.Scan(&p.ID, &p.RollNo, &p.Name, &p.Department, &p.Semester, &p.Section); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}
