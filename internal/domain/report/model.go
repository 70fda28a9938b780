package report

import (
	"time"

	"github.com/ganot/rollcall/internal/domain/attendance"
)

// Tally is an attended/total pair with a percentage rounded to two
// decimals. A zero total yields a zero percentage, never a division
// fault.
type Tally struct {
	Attended   int     `json:"attended"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ParticipantSummary is a student's standing overall and per subject.
type ParticipantSummary struct {
	Overall   Tally            `json:"overall"`
	BySubject map[string]Tally `json:"by_subject"`
}

// PresenceStatus is a roster entry's presence state for one meeting.
type PresenceStatus string

const (
	StatusPresent PresenceStatus = "Present"
	StatusAbsent  PresenceStatus = "Absent"
)

// RosterEntry is one expected participant's state for a meeting.
type RosterEntry struct {
	ParticipantID string             `json:"participant_id"`
	Name          string             `json:"name"`
	RollNo        string             `json:"roll_no"`
	Status        PresenceStatus     `json:"status"`
	MarkedAt      *time.Time         `json:"marked_at,omitempty"`
	Method        *attendance.Method `json:"method,omitempty"`
}

// SessionRoster is the full presence/absence picture for one meeting.
type SessionRoster struct {
	TotalStudents int           `json:"total_students"`
	PresentCount  int           `json:"present_count"`
	AbsentCount   int           `json:"absent_count"`
	List          []RosterEntry `json:"attendance_list"`
}

// StudentStanding is a student's overall tally with enough identity to
// act on, used by the low-attendance report.
type StudentStanding struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name"`
	Department    string  `json:"department"`
	Semester      int     `json:"semester"`
	Section       string  `json:"section"`
	Attended      int     `json:"attended"`
	Total         int     `json:"total"`
	Percentage    float64 `json:"percentage"`
}
