package meeting

import (
	"time"

	"github.com/ganot/rollcall/internal/geo"
)

// State is the lifecycle state of a meeting's verification session.
type State string

const (
	// StateIdle is the initial state; no verification window has opened.
	StateIdle State = "idle"
	// StateActive means a verification window is open. Expiry is checked
	// against the wall clock on every marking attempt; it never flips the
	// stored state by itself.
	StateActive State = "active"
	// StateClosed is terminal; set by an explicit Deactivate.
	StateClosed State = "closed"
)

// Meeting is one scheduled class instance subject to a presence
// verification window. Meetings are created by the scheduling side; this
// package only transitions state and session fields on existing rows.
type Meeting struct {
	ID        string `json:"id"`
	TeacherID string `json:"teacher_id"`

	Subject    string `json:"subject"`
	Department string `json:"department"`
	Semester   int    `json:"semester"`
	Section    string `json:"section"`

	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`

	State State `json:"state"`

	// Set while a session is or has been active.
	Token       string        `json:"-"`
	TokenExpiry *time.Time    `json:"token_expiry,omitempty"`
	Anchor      *geo.Location `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Activation is the result of opening a verification window.
type Activation struct {
	Token       string    `json:"token"`
	TokenExpiry time.Time `json:"token_expiry"`
	QRCode      string    `json:"qr_code,omitempty"`
}
