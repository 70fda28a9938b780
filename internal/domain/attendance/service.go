package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/geo"
	"github.com/ganot/rollcall/internal/identity"
	"github.com/ganot/rollcall/internal/repository"
)

// SelfServiceRadiusMeters is the geofence radius for token-scan marking.
// Policy constant, not configurable per meeting.
const SelfServiceRadiusMeters = 5

// Service arbitrates the three marking channels over the attendance
// ledger.
type Service struct {
	meetings MeetingRepository
	ledger   LedgerRepository
	roster   RosterResolver
	logger   *slog.Logger
}

// NewService creates a new attendance service.
func NewService(meetings MeetingRepository, ledger LedgerRepository, roster RosterResolver, logger *slog.Logger) *Service {
	return &Service{
		meetings: meetings,
		ledger:   ledger,
		roster:   roster,
		logger:   logger,
	}
}

// MarkByToken records the calling student's own presence. The session
// must be active, the presented token must match the current one (checked
// before expiry so a stale token reports as invalid, not expired), the
// token must be unexpired, and the student must be within the geofence of
// the teacher's activation position.
func (s *Service) MarkByToken(ctx context.Context, caller identity.Identity, meetingID, token string, observed *geo.Location) error {
	if token == "" {
		return fmt.Errorf("%w: token", ErrMissingInput)
	}

	m, err := s.loadMeeting(ctx, meetingID)
	if err != nil {
		return err
	}

	now := time.Now()
	if m.State != meeting.StateActive {
		return ErrSessionNotActive
	}
	if token != m.Token {
		return ErrInvalidToken
	}
	if m.TokenExpiry == nil || meeting.Expired(*m.TokenExpiry, now) {
		return ErrExpired
	}
	if !geo.WithinRadius(m.Anchor, observed, SelfServiceRadiusMeters) {
		return ErrOutOfRange
	}

	return s.write(ctx, &Record{
		MeetingID:     m.ID,
		ParticipantID: caller.UserID,
		Method:        MethodTokenScan,
		MarkedAt:      now,
	})
}

// ManualMark records a single student's presence on the teacher's
// authority, bypassing token and geofence checks. The window must still
// be open.
func (s *Service) ManualMark(ctx context.Context, caller identity.Identity, meetingID, participantID string) error {
	if participantID == "" {
		return fmt.Errorf("%w: participant id", ErrMissingInput)
	}

	m, err := s.loadMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if m.TeacherID != caller.UserID {
		return ErrForbidden
	}

	now := time.Now()
	if m.State != meeting.StateActive {
		return ErrSessionNotActive
	}
	if m.TokenExpiry == nil || meeting.Expired(*m.TokenExpiry, now) {
		return ErrExpired
	}

	return s.write(ctx, &Record{
		MeetingID:     m.ID,
		ParticipantID: participantID,
		Method:        MethodManualOverride,
		MarkedAt:      now,
	})
}

// MarkByBatch ingests external recognition results. The window check runs
// once for the whole batch; after that every entry is attempted
// independently and no entry's failure aborts the rest. Unresolvable roll
// numbers are collected into the result; already-marked participants are
// skipped silently.
func (s *Service) MarkByBatch(ctx context.Context, caller identity.Identity, meetingID string, entries []BatchEntry) (*BatchResult, error) {
	m, err := s.loadMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m.TeacherID != caller.UserID {
		return nil, ErrForbidden
	}

	now := time.Now()
	if m.State != meeting.StateActive {
		return nil, ErrSessionNotActive
	}
	if m.TokenExpiry == nil || meeting.Expired(*m.TokenExpiry, now) {
		return nil, ErrExpired
	}

	result := &BatchResult{NotFound: []string{}}
	for _, entry := range entries {
		if entry.RollNo == "" || entry.EvidenceTime.IsZero() {
			continue
		}

		participantID, err := s.roster.ResolveRollNo(ctx, entry.RollNo)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				result.NotFound = append(result.NotFound, entry.RollNo)
				continue
			}
			s.logEntrySkip(m.ID, entry.RollNo, "roster lookup failed", err)
			continue
		}

		evidence := entry.EvidenceTime
		err = s.write(ctx, &Record{
			MeetingID:     m.ID,
			ParticipantID: participantID,
			Method:        MethodBatchRecognition,
			MarkedAt:      time.Now(),
			EvidenceTime:  &evidence,
		})
		switch {
		case err == nil:
			result.MarkedCount++
		case errors.Is(err, ErrAlreadyMarked):
			// Marked through another channel; skipped, not an error.
		default:
			s.logEntrySkip(m.ID, entry.RollNo, "conditional write failed", err)
		}
	}

	return result, nil
}

func (s *Service) loadMeeting(ctx context.Context, meetingID string) (*meeting.Meeting, error) {
	m, err := s.meetings.Get(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("loading meeting: %w", err)
	}
	return m, nil
}

// write funnels every channel through the ledger's conditional insert.
func (s *Service) write(ctx context.Context, rec *Record) error {
	err := s.ledger.Mark(ctx, rec)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrAlreadyMarked
	case errors.Is(err, repository.ErrPreconditionFailed):
		// The session flipped between the read and the write.
		return ErrSessionNotActive
	default:
		return fmt.Errorf("writing attendance record: %w", err)
	}
}

func (s *Service) logEntrySkip(meetingID, rollNo, reason string, err error) {
	if s.logger != nil {
		s.logger.Warn("batch entry skipped",
			"meeting", meetingID, "roll_no", rollNo, "reason", reason, "error", err)
	}
}
