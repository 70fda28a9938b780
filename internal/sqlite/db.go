package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema.
func (db *DB) RunMigrations() error {
	migration := `
-- Meetings: one scheduled class instance. Created by the scheduling side;
-- the core only transitions session fields on existing rows.
CREATE TABLE IF NOT EXISTS meetings (
    id TEXT PRIMARY KEY,
    teacher_id TEXT NOT NULL,
    subject TEXT NOT NULL,
    department TEXT NOT NULL,
    semester INTEGER NOT NULL,
    section TEXT NOT NULL,
    scheduled_start TIMESTAMP NOT NULL,
    scheduled_end TIMESTAMP NOT NULL,
    state TEXT NOT NULL DEFAULT 'idle' CHECK(state IN ('idle', 'active', 'closed')),
    token TEXT,
    token_expiry TIMESTAMP,
    anchor_lat REAL,
    anchor_lng REAL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    CHECK (scheduled_end > scheduled_start)
);
CREATE INDEX IF NOT EXISTS idx_teacher_meetings ON meetings(teacher_id);
CREATE INDEX IF NOT EXISTS idx_cohort_meetings ON meetings(department, semester, section);

-- Attendance ledger: the primary key is the at-most-once guarantee.
-- Rows are never updated or deleted.
CREATE TABLE IF NOT EXISTS attendance_records (
    meeting_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    method TEXT NOT NULL CHECK(method IN ('token_scan', 'manual_override', 'batch_recognition')),
    marked_at TIMESTAMP NOT NULL,
    evidence_time TIMESTAMP,
    PRIMARY KEY (meeting_id, participant_id),
    FOREIGN KEY (meeting_id) REFERENCES meetings(id)
);
CREATE INDEX IF NOT EXISTS idx_participant_records ON attendance_records(participant_id);

-- Roster snapshot read by the resolver. Populated by the enrollment side.
CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    roll_no TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    department TEXT NOT NULL,
    semester INTEGER NOT NULL,
    section TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cohort_participants ON participants(department, semester, section);

-- Warnings from teachers to students.
CREATE TABLE IF NOT EXISTS warnings (
    id TEXT PRIMARY KEY,
    student_id TEXT NOT NULL,
    teacher_id TEXT NOT NULL,
    meeting_id TEXT,
    message TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (meeting_id) REFERENCES meetings(id)
);
CREATE INDEX IF NOT EXISTS idx_student_warnings ON warnings(student_id);

-- API keys for authentication: the trust boundary's (callerId, role)
-- handoff.
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('teacher', 'student')),
    description TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_user_keys ON api_keys(user_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
