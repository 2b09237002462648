package services

import (
	"context"
	"log/slog"

	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Outbox is the audit delivery nudge used after successful commits.
	// Nil skips the nudge; the background flusher still delivers.
	Outbox portssvc.AuditMaintenanceSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogWarn logs a warning message with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// FlushAuditOutbox nudges outbox delivery after a commit. Failures are logged
// and dropped; undelivered events stay in the outbox for the background
// flusher, so the financial operation never fails on audit delivery.
func (s *BaseService) FlushAuditOutbox(ctx context.Context) {
	if s.Outbox == nil {
		return
	}
	if _, err := s.Outbox.FlushOutbox(ctx); err != nil {
		s.LogDebug(ctx, "audit outbox flush after commit failed", slog.String("error", err.Error()))
	}
}
