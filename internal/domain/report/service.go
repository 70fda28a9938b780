package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/domain/roster"
	"github.com/ganot/rollcall/internal/identity"
	"github.com/ganot/rollcall/internal/repository"
)

// DefaultLowAttendanceThreshold is the percentage below which a student
// is flagged.
const DefaultLowAttendanceThreshold = 50.0

// Service builds read-side rollups from the ledger and roster snapshots.
// It never mutates either.
type Service struct {
	meetings MeetingRepository
	ledger   LedgerRepository
	roster   RosterRepository
	logger   *slog.Logger
}

// NewService creates a new report service.
func NewService(meetings MeetingRepository, ledger LedgerRepository, rosterRepo RosterRepository, logger *slog.Logger) *Service {
	return &Service{
		meetings: meetings,
		ledger:   ledger,
		roster:   rosterRepo,
		logger:   logger,
	}
}

// ParticipantSummary computes the calling student's standing across every
// meeting of their cohort, overall and bucketed by subject.
func (s *Service) ParticipantSummary(ctx context.Context, caller identity.Identity) (*ParticipantSummary, error) {
	student, err := s.roster.GetParticipant(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("loading participant: %w", err)
	}

	expected, err := s.meetings.ListByCohort(ctx, student.Department, student.Semester, student.Section)
	if err != nil {
		return nil, fmt.Errorf("listing cohort meetings: %w", err)
	}

	marked, err := s.markedSet(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	summary := &ParticipantSummary{BySubject: map[string]Tally{}}
	for _, m := range expected {
		attended := marked[m.ID]

		summary.Overall.Total++
		if attended {
			summary.Overall.Attended++
		}

		bucket := summary.BySubject[m.Subject]
		bucket.Total++
		if attended {
			bucket.Attended++
		}
		summary.BySubject[m.Subject] = bucket
	}

	summary.Overall.Percentage = percentage(summary.Overall.Attended, summary.Overall.Total)
	for subject, bucket := range summary.BySubject {
		bucket.Percentage = percentage(bucket.Attended, bucket.Total)
		summary.BySubject[subject] = bucket
	}

	return summary, nil
}

// SessionRoster reports presence and absence for every participant
// expected at a meeting. Teacher only.
func (s *Service) SessionRoster(ctx context.Context, caller identity.Identity, meetingID string) (*SessionRoster, error) {
	m, err := s.meetings.Get(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("loading meeting: %w", err)
	}
	if m.TeacherID != caller.UserID {
		return nil, ErrForbidden
	}

	expected, err := s.roster.ListByCohort(ctx, m.Department, m.Semester, m.Section)
	if err != nil {
		return nil, fmt.Errorf("listing expected participants: %w", err)
	}

	records, err := s.ledger.ListByMeeting(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	byParticipant := make(map[string]attendance.Record, len(records))
	for _, rec := range records {
		byParticipant[rec.ParticipantID] = rec
	}

	result := &SessionRoster{
		TotalStudents: len(expected),
		PresentCount:  len(records),
		AbsentCount:   len(expected) - len(records),
		List:          make([]RosterEntry, 0, len(expected)),
	}
	for _, student := range expected {
		entry := RosterEntry{
			ParticipantID: student.ID,
			Name:          student.Name,
			RollNo:        student.RollNo,
			Status:        StatusAbsent,
		}
		if rec, ok := byParticipant[student.ID]; ok {
			entry.Status = StatusPresent
			markedAt := rec.MarkedAt
			method := rec.Method
			entry.MarkedAt = &markedAt
			entry.Method = &method
		}
		result.List = append(result.List, entry)
	}

	return result, nil
}

// LowAttendance returns students across the caller's meetings whose
// overall percentage is below threshold. Students with no expected
// meetings are excluded, not flagged.
func (s *Service) LowAttendance(ctx context.Context, caller identity.Identity, threshold float64) ([]StudentStanding, error) {
	taught, err := s.meetings.ListByTeacher(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing meetings: %w", err)
	}
	if len(taught) == 0 {
		return []StudentStanding{}, nil
	}

	students, err := s.studentsForMeetings(ctx, taught)
	if err != nil {
		return nil, err
	}

	standings := make([]StudentStanding, 0, len(students))
	for _, student := range students {
		marked, err := s.markedSet(ctx, student.ID)
		if err != nil {
			return nil, err
		}

		standing := StudentStanding{
			ParticipantID: student.ID,
			Name:          student.Name,
			Department:    student.Department,
			Semester:      student.Semester,
			Section:       student.Section,
		}
		for _, m := range taught {
			if m.Department != student.Department || m.Semester != student.Semester || m.Section != student.Section {
				continue
			}
			standing.Total++
			if marked[m.ID] {
				standing.Attended++
			}
		}
		standing.Percentage = percentage(standing.Attended, standing.Total)
		standings = append(standings, standing)
	}

	return FilterLowAttendance(standings, threshold), nil
}

// FilterLowAttendance keeps standings below threshold, skipping students
// with a zero total.
func FilterLowAttendance(standings []StudentStanding, threshold float64) []StudentStanding {
	flagged := make([]StudentStanding, 0, len(standings))
	for _, standing := range standings {
		if standing.Total > 0 && standing.Percentage < threshold {
			flagged = append(flagged, standing)
		}
	}
	return flagged
}

// studentsForMeetings collects the distinct students of every cohort the
// meetings cover.
func (s *Service) studentsForMeetings(ctx context.Context, meetings []meeting.Meeting) ([]roster.Participant, error) {
	type cohort struct {
		department string
		semester   int
		section    string
	}

	seen := map[cohort]bool{}
	byID := map[string]roster.Participant{}
	var order []string

	for _, m := range meetings {
		key := cohort{m.Department, m.Semester, m.Section}
		if seen[key] {
			continue
		}
		seen[key] = true

		students, err := s.roster.ListByCohort(ctx, key.department, key.semester, key.section)
		if err != nil {
			return nil, fmt.Errorf("listing cohort participants: %w", err)
		}
		for _, student := range students {
			if _, ok := byID[student.ID]; !ok {
				byID[student.ID] = student
				order = append(order, student.ID)
			}
		}
	}

	result := make([]roster.Participant, 0, len(order))
	for _, id := range order {
		result = append(result, byID[id])
	}
	return result, nil
}

func (s *Service) markedSet(ctx context.Context, participantID string) (map[string]bool, error) {
	ids, err := s.ledger.ListMeetingIDsForParticipant(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("loading marked meetings: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func percentage(attended, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*100*100) / 100
}
