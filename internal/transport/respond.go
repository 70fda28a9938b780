package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/domain/report"
	"github.com/ganot/rollcall/internal/domain/warning"
	"github.com/ganot/rollcall/internal/repository"
)

type errorResponse struct {
	Message string `json:"message"`
	Retry   bool   `json:"retry,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Message: err.Error()}
	if errors.Is(err, repository.ErrConflict) {
		resp.Message = "store contention, please retry"
		resp.Retry = true
	}
	if status == http.StatusInternalServerError {
		resp.Message = "internal server error"
	}
	writeJSON(w, status, resp)
}

// statusFor maps the domain error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, meeting.ErrNotFound),
		errors.Is(err, attendance.ErrMeetingNotFound),
		errors.Is(err, report.ErrMeetingNotFound),
		errors.Is(err, report.ErrParticipantNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, meeting.ErrForbidden),
		errors.Is(err, attendance.ErrForbidden),
		errors.Is(err, report.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, meeting.ErrWindowNotOpen),
		errors.Is(err, meeting.ErrMissingInput),
		errors.Is(err, attendance.ErrInvalidToken),
		errors.Is(err, attendance.ErrMissingInput),
		errors.Is(err, warning.ErrMissingInput):
		return http.StatusBadRequest

	case errors.Is(err, meeting.ErrInvalidState),
		errors.Is(err, attendance.ErrSessionNotActive),
		errors.Is(err, attendance.ErrExpired),
		errors.Is(err, attendance.ErrOutOfRange):
		return http.StatusForbidden

	case errors.Is(err, attendance.ErrAlreadyMarked),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
