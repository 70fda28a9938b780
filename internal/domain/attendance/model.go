package attendance

import "time"

// Method identifies the channel that produced an attendance record.
type Method string

const (
	// MethodTokenScan is self-service marking via a scanned session token.
	MethodTokenScan Method = "token_scan"
	// MethodManualOverride is a teacher marking a single student directly.
	MethodManualOverride Method = "manual_override"
	// MethodBatchRecognition is bulk ingestion of external recognition
	// results.
	MethodBatchRecognition Method = "batch_recognition"
)

// Record is one participant's presence record for one meeting. Records
// are immutable after the first write; a participant is never recorded
// twice for the same meeting.
type Record struct {
	MeetingID     string    `json:"meeting_id"`
	ParticipantID string    `json:"participant_id"`
	Method        Method    `json:"method"`
	MarkedAt      time.Time `json:"marked_at"`

	// EvidenceTime is the recognizer-supplied observation instant, set
	// only for batch recognition. Distinct from MarkedAt.
	EvidenceTime *time.Time `json:"evidence_time,omitempty"`
}

// BatchEntry is one externally recognized identity.
type BatchEntry struct {
	RollNo       string    `json:"roll_no"`
	EvidenceTime time.Time `json:"evidence_time"`
}

// BatchResult summarizes a batch recognition run.
type BatchResult struct {
	MarkedCount int      `json:"marked_count"`
	NotFound    []string `json:"not_found_roll_numbers"`
}
