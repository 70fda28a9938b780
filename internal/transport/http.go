package transport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/domain/report"
	"github.com/ganot/rollcall/internal/domain/warning"
	"github.com/ganot/rollcall/internal/geo"
	"github.com/ganot/rollcall/internal/identity"
)

// MeetingService defines session lifecycle operations exposed over HTTP.
type MeetingService interface {
	Activate(ctx context.Context, caller identity.Identity, meetingID string, anchor *geo.Location) (*meeting.Activation, error)
	Deactivate(ctx context.Context, caller identity.Identity, meetingID string) error
	ListForTeacher(ctx context.Context, caller identity.Identity) ([]meeting.Meeting, error)
}

// AttendanceService defines marking operations exposed over HTTP.
type AttendanceService interface {
	MarkByToken(ctx context.Context, caller identity.Identity, meetingID, token string, observed *geo.Location) error
	ManualMark(ctx context.Context, caller identity.Identity, meetingID, participantID string) error
	MarkByBatch(ctx context.Context, caller identity.Identity, meetingID string, entries []attendance.BatchEntry) (*attendance.BatchResult, error)
}

// ReportService defines read-side rollups exposed over HTTP.
type ReportService interface {
	ParticipantSummary(ctx context.Context, caller identity.Identity) (*report.ParticipantSummary, error)
	SessionRoster(ctx context.Context, caller identity.Identity, meetingID string) (*report.SessionRoster, error)
	LowAttendance(ctx context.Context, caller identity.Identity, threshold float64) ([]report.StudentStanding, error)
}

// WarningService defines warning operations exposed over HTTP.
type WarningService interface {
	Send(ctx context.Context, caller identity.Identity, studentID, meetingID, message string) (*warning.Warning, error)
	ListForStudent(ctx context.Context, caller identity.Identity) ([]warning.Warning, error)
}

// Services bundles everything the router needs.
type Services struct {
	Meetings   MeetingService
	Attendance AttendanceService
	Reports    ReportService
	Warnings   WarningService
}

// Server wires HTTP handlers.
type Server struct {
	services Services
}

// NewRouter creates the HTTP router with auth and role middleware.
func NewRouter(services Services, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	srv := &Server{services: services}

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		r.Route("/sessions", func(r chi.Router) {
			r.With(RequireRole(identity.RoleTeacher)).Patch("/activate/{meetingID}", srv.handleActivate)
			r.With(RequireRole(identity.RoleTeacher)).Patch("/end/{meetingID}", srv.handleDeactivate)
			r.With(RequireRole(identity.RoleStudent)).Post("/mark-attendance/{meetingID}", srv.handleMarkByToken)
			r.With(RequireRole(identity.RoleTeacher)).Post("/manual-mark/{meetingID}", srv.handleManualMark)
			r.With(RequireRole(identity.RoleTeacher)).Post("/mark-by-face/{meetingID}", srv.handleMarkByBatch)
		})

		r.Route("/classes", func(r chi.Router) {
			r.With(RequireRole(identity.RoleTeacher)).Get("/", srv.handleTeacherMeetings)
			r.With(RequireRole(identity.RoleTeacher)).Get("/{meetingID}/attendance-summary", srv.handleSessionRoster)
		})

		r.Route("/students", func(r chi.Router) {
			r.With(RequireRole(identity.RoleStudent)).Get("/attendance-summary", srv.handleParticipantSummary)
		})

		r.Route("/warnings", func(r chi.Router) {
			r.With(RequireRole(identity.RoleTeacher)).Get("/low-attendance", srv.handleLowAttendance)
			r.With(RequireRole(identity.RoleTeacher)).Post("/", srv.handleSendWarning)
			r.With(RequireRole(identity.RoleStudent)).Get("/me", srv.handleStudentWarnings)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
