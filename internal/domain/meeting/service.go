package meeting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ganot/rollcall/internal/geo"
	"github.com/ganot/rollcall/internal/identity"
	"github.com/ganot/rollcall/internal/repository"
)

// Service owns the session lifecycle for meetings.
type Service struct {
	meetings Repository
	qr       QRRenderer
	logger   *slog.Logger
}

// NewService creates a new meeting service.
func NewService(meetings Repository, qr QRRenderer, logger *slog.Logger) *Service {
	return &Service{
		meetings: meetings,
		qr:       qr,
		logger:   logger,
	}
}

// Activate opens a verification window for a meeting. Only the meeting's
// teacher may activate, and only once half the scheduled duration has
// elapsed and the meeting has not yet ended. A fresh token is minted on
// every activation; any previous token stops validating. Attendance
// already on the ledger is preserved (the ledger is only ever reset when
// it is empty, which leaves nothing to do).
func (s *Service) Activate(ctx context.Context, caller identity.Identity, meetingID string, anchor *geo.Location) (*Activation, error) {
	if anchor == nil {
		return nil, fmt.Errorf("%w: teacher location", ErrMissingInput)
	}

	m, err := s.meetings.Get(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading meeting: %w", err)
	}

	if m.TeacherID != caller.UserID {
		return nil, ErrForbidden
	}
	if m.State == StateClosed {
		return nil, ErrInvalidState
	}

	now := time.Now()
	if !WindowOpen(m.ScheduledStart, m.ScheduledEnd, now) {
		return nil, ErrWindowNotOpen
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	expiry := ExpiryFor(m.ScheduledEnd)

	if err := s.meetings.Activate(ctx, m.ID, token, expiry, *anchor); err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			// Lost a race against a concurrent Deactivate.
			return nil, ErrInvalidState
		}
		return nil, fmt.Errorf("activating session: %w", err)
	}

	result := &Activation{Token: token, TokenExpiry: expiry}
	if s.qr != nil {
		dataURL, err := s.qr.DataURL(token)
		if err != nil {
			return nil, fmt.Errorf("rendering qr code: %w", err)
		}
		result.QRCode = dataURL
	}

	if s.logger != nil {
		s.logger.Info("session activated",
			"meeting", m.ID, "teacher", caller.UserID, "expiry", expiry)
	}
	return result, nil
}

// Deactivate closes an active session. Closing an already closed or never
// activated session is an error, not a no-op.
func (s *Service) Deactivate(ctx context.Context, caller identity.Identity, meetingID string) error {
	m, err := s.meetings.Get(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("loading meeting: %w", err)
	}

	if m.TeacherID != caller.UserID {
		return ErrForbidden
	}
	if m.State != StateActive {
		return ErrInvalidState
	}

	if err := s.meetings.Close(ctx, m.ID); err != nil {
		if errors.Is(err, repository.ErrPreconditionFailed) {
			return ErrInvalidState
		}
		return fmt.Errorf("closing session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("session closed", "meeting", m.ID, "teacher", caller.UserID)
	}
	return nil
}

// ListForTeacher returns the caller's meetings, for dashboards.
func (s *Service) ListForTeacher(ctx context.Context, caller identity.Identity) ([]Meeting, error) {
	list, err := s.meetings.ListByTeacher(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing meetings: %w", err)
	}
	return list, nil
}
