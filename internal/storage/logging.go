package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger routes gorm logs to slog. Queries are logged at debug level,
// slow ones and failures at warn.
type gormLogger struct {
	logger        *slog.Logger
	slowThreshold time.Duration
}

func newGormLogger(l *slog.Logger, slowThreshold time.Duration) *gormLogger {
	return &gormLogger{
		logger:        l.With("logger", "gorm"),
		slowThreshold: slowThreshold,
	}
}

func (g *gormLogger) LogMode(logger.LogLevel) logger.Interface {
	return g
}

func (g *gormLogger) Info(ctx context.Context, s string, args ...any) {
	g.logger.InfoContext(ctx, fmt.Sprintf(s, args...))
}

func (g *gormLogger) Warn(ctx context.Context, s string, args ...any) {
	g.logger.WarnContext(ctx, fmt.Sprintf(s, args...))
}

func (g *gormLogger) Error(ctx context.Context, s string, args ...any) {
	g.logger.ErrorContext(ctx, fmt.Sprintf(s, args...))
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		g.logger.WarnContext(ctx, "sql failed", "elapsed", elapsed, "rows", rows, "sql", sql, tint.Err(err))
	case g.slowThreshold > 0 && elapsed > g.slowThreshold:
		g.logger.WarnContext(ctx, "slow sql", "elapsed", elapsed, "threshold", g.slowThreshold, "rows", rows, "sql", sql)
	default:
		g.logger.DebugContext(ctx, "sql completed", "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
