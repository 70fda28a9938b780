// Package mcp exposes read-only attendance reporting to agent tooling
// over the Model Context Protocol. Nothing registered here mutates the
// ledger.
package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/rollcall/internal/domain/report"
	"github.com/ganot/rollcall/internal/identity"
)

// ReportService defines the rollups exposed as MCP tools.
type ReportService interface {
	ParticipantSummary(ctx context.Context, caller identity.Identity) (*report.ParticipantSummary, error)
	SessionRoster(ctx context.Context, caller identity.Identity, meetingID string) (*report.SessionRoster, error)
	LowAttendance(ctx context.Context, caller identity.Identity, threshold float64) ([]report.StudentStanding, error)
}

// IdentityResolver resolves a caller identity from a bearer token.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (identity.Identity, error)
}

// Config contains server configuration.
type Config struct {
	Reports  ReportService
	Resolver IdentityResolver
	Logger   *slog.Logger
}

// NewServer creates an MCP server with the reporting tools and bearer
// auth middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "rollcall",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))

	registerTools(server, cfg.Reports)

	return server
}

const serverInstructions = `Read-only attendance reporting for rollcall.

Tools authenticate with the same bearer api keys as the HTTP API; the
key's role decides what a tool may see. get_session_roster and
list_low_attendance need a teacher key, get_participant_summary a
student key. No tool can activate sessions or mark attendance.`
