package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/domain/report"
	"github.com/ganot/rollcall/internal/geo"
)

type activateRequest struct {
	TeacherLocation *geo.Location `json:"teacher_location"`
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	result, err := s.services.Meetings.Activate(r.Context(), caller, chi.URLParam(r, "meetingID"), req.TeacherLocation)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	if err := s.services.Meetings.Deactivate(r.Context(), caller, chi.URLParam(r, "meetingID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "attendance session has been ended"})
}

type markRequest struct {
	Token    string        `json:"token"`
	Location *geo.Location `json:"location"`
}

func (s *Server) handleMarkByToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	err := s.services.Attendance.MarkByToken(r.Context(), caller, chi.URLParam(r, "meetingID"), req.Token, req.Location)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "attendance marked successfully"})
}

type manualMarkRequest struct {
	StudentID string `json:"student_id"`
}

func (s *Server) handleManualMark(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req manualMarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	err := s.services.Attendance.ManualMark(r.Context(), caller, chi.URLParam(r, "meetingID"), req.StudentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "attendance marked successfully"})
}

type batchRequest struct {
	RecognizedStudents []attendance.BatchEntry `json:"recognized_students"`
}

func (s *Server) handleMarkByBatch(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RecognizedStudents == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "an array of recognized students is required"})
		return
	}

	result, err := s.services.Attendance.MarkByBatch(r.Context(), caller, chi.URLParam(r, "meetingID"), req.RecognizedStudents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTeacherMeetings(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	meetings, err := s.services.Meetings.ListForTeacher(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"classes": meetings})
}

func (s *Server) handleSessionRoster(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	roster, err := s.services.Reports.SessionRoster(r.Context(), caller, chi.URLParam(r, "meetingID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (s *Server) handleParticipantSummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	summary, err := s.services.Reports.ParticipantSummary(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleLowAttendance(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	threshold := report.DefaultLowAttendanceThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid threshold"})
			return
		}
		threshold = parsed
	}

	standings, err := s.services.Reports.LowAttendance(r.Context(), caller, threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

type sendWarningRequest struct {
	StudentID string `json:"student_id"`
	MeetingID string `json:"meeting_id,omitempty"`
	Message   string `json:"message"`
}

func (s *Server) handleSendWarning(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req sendWarningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	sent, err := s.services.Warnings.Send(r.Context(), caller, req.StudentID, req.MeetingID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

func (s *Server) handleStudentWarnings(w http.ResponseWriter, r *http.Request) {
	caller, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	warnings, err := s.services.Warnings.ListForStudent(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, warnings)
}
