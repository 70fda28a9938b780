package warning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/rollcall/internal/identity"
	"github.com/google/uuid"
)

// Service sends and lists attendance warnings.
type Service struct {
	warnings Repository
	logger   *slog.Logger
}

// NewService creates a new warning service.
func NewService(warnings Repository, logger *slog.Logger) *Service {
	return &Service{warnings: warnings, logger: logger}
}

// Send records a warning from the calling teacher to a student.
func (s *Service) Send(ctx context.Context, caller identity.Identity, studentID, meetingID, message string) (*Warning, error) {
	if strings.TrimSpace(studentID) == "" || strings.TrimSpace(message) == "" {
		return nil, ErrMissingInput
	}

	w := &Warning{
		ID:        uuid.NewString(),
		StudentID: studentID,
		TeacherID: caller.UserID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if meetingID != "" {
		w.MeetingID = &meetingID
	}

	if err := s.warnings.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("creating warning: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("warning sent", "teacher", caller.UserID, "student", studentID)
	}
	return w, nil
}

// ListForStudent returns the calling student's warnings, newest first.
func (s *Service) ListForStudent(ctx context.Context, caller identity.Identity) ([]Warning, error) {
	list, err := s.warnings.ListByStudent(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing warnings: %w", err)
	}
	return list, nil
}
