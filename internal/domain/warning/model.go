package warning

import "time"

// Warning is a teacher's notice to a student, usually about low
// attendance.
type Warning struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	TeacherID string    `json:"teacher_id"`
	MeetingID *string   `json:"meeting_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
