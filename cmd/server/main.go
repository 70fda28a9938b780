package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/rollcall/internal/config"
	"github.com/ganot/rollcall/internal/domain/attendance"
	"github.com/ganot/rollcall/internal/domain/meeting"
	"github.com/ganot/rollcall/internal/domain/report"
	"github.com/ganot/rollcall/internal/domain/warning"
	"github.com/ganot/rollcall/internal/mcp"
	"github.com/ganot/rollcall/internal/qr"
	"github.com/ganot/rollcall/internal/sqlite"
	"github.com/ganot/rollcall/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	meetingRepo := sqlite.NewMeetingRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)
	rosterRepo := sqlite.NewRosterRepository(db)
	warningRepo := sqlite.NewWarningRepository(db)
	resolver := sqlite.NewIdentityResolver(db)

	meetingSvc := meeting.NewService(meetingRepo, qr.NewRenderer(), logger)
	attendanceSvc := attendance.NewService(meetingRepo, ledgerRepo, rosterRepo, logger)
	reportSvc := report.NewService(meetingRepo, ledgerRepo, rosterRepo, logger)
	warningSvc := warning.NewService(warningRepo, logger)

	router := transport.NewRouter(transport.Services{
		Meetings:   meetingSvc,
		Attendance: attendanceSvc,
		Reports:    reportSvc,
		Warnings:   warningSvc,
	}, transport.AuthMiddleware(resolver))

	mcpServer := mcp.NewServer(mcp.Config{
		Reports:  reportSvc,
		Resolver: resolver,
		Logger:   logger,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/*", mcpHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
