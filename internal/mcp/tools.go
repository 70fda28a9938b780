package mcp

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/rollcall/internal/domain/report"
)

func registerTools(server *sdkmcp.Server, reports ReportService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_session_roster",
		Description: "Presence and absence for every student expected at a meeting",
	}, sessionRosterHandler(reports))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_participant_summary",
		Description: "The calling student's attendance standing, overall and per subject",
	}, participantSummaryHandler(reports))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_low_attendance",
		Description: "Students across the calling teacher's meetings below an attendance threshold",
	}, lowAttendanceHandler(reports))
}

// SessionRosterInput identifies the meeting to report on.
type SessionRosterInput struct {
	MeetingID string `json:"meeting_id" jsonschema:"the meeting to report on"`
}

func sessionRosterHandler(reports ReportService) sdkmcp.ToolHandlerFor[SessionRosterInput, *report.SessionRoster] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input SessionRosterInput) (*sdkmcp.CallToolResult, *report.SessionRoster, error) {
		caller, ok := callerFromContext(ctx)
		if !ok {
			return nil, nil, errors.New("unauthorized: missing caller")
		}

		roster, err := reports.SessionRoster(ctx, caller, input.MeetingID)
		if err != nil {
			return nil, nil, fmt.Errorf("session roster: %w", err)
		}
		return nil, roster, nil
	}
}

// ParticipantSummaryInput has no fields; the caller is identified by
// their api key.
type ParticipantSummaryInput struct{}

func participantSummaryHandler(reports ReportService) sdkmcp.ToolHandlerFor[ParticipantSummaryInput, *report.ParticipantSummary] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ParticipantSummaryInput) (*sdkmcp.CallToolResult, *report.ParticipantSummary, error) {
		caller, ok := callerFromContext(ctx)
		if !ok {
			return nil, nil, errors.New("unauthorized: missing caller")
		}

		summary, err := reports.ParticipantSummary(ctx, caller)
		if err != nil {
			return nil, nil, fmt.Errorf("participant summary: %w", err)
		}
		return nil, summary, nil
	}
}

// LowAttendanceInput optionally overrides the percentage threshold.
type LowAttendanceInput struct {
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"percentage threshold, defaults to 50"`
}

// LowAttendanceResult wraps the flagged students.
type LowAttendanceResult struct {
	Students []report.StudentStanding `json:"students"`
}

func lowAttendanceHandler(reports ReportService) sdkmcp.ToolHandlerFor[LowAttendanceInput, LowAttendanceResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, input LowAttendanceInput) (*sdkmcp.CallToolResult, LowAttendanceResult, error) {
		caller, ok := callerFromContext(ctx)
		if !ok {
			return nil, LowAttendanceResult{}, errors.New("unauthorized: missing caller")
		}

		threshold := report.DefaultLowAttendanceThreshold
		if input.Threshold != nil {
			threshold = *input.Threshold
		}

		standings, err := reports.LowAttendance(ctx, caller, threshold)
		if err != nil {
			return nil, LowAttendanceResult{}, fmt.Errorf("low attendance: %w", err)
		}
		return nil, LowAttendanceResult{Students: standings}, nil
	}
}
