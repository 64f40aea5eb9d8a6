package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// zerologLogger routes GORM's logging into zerolog.
type zerologLogger struct {
	log   zerolog.Logger
	slow  time.Duration
	level gormlogger.LogLevel
}

// NewLogger returns a GORM logger. Statements are logged at debug, statements
// slower than slow at warn, and failures other than expected constraint
// violations at error.
func NewLogger(log zerolog.Logger, slow time.Duration) gormlogger.Interface {
	return &zerologLogger{
		log:   log.With().Str("component", "gorm").Logger(),
		slow:  slow,
		level: gormlogger.Info,
	}
}

func (l *zerologLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *zerologLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msgf(msg, args...)
	}
}

func (l *zerologLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msgf(msg, args...)
	}
}

func (l *zerologLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msgf(msg, args...)
	}
}

func (l *zerologLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var event *zerolog.Event
	switch {
	case err != nil && !expected(err) && l.level >= gormlogger.Error:
		event = l.log.Error().Err(err)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		event = l.log.Warn().Dur("threshold", l.slow)
	case l.level >= gormlogger.Info:
		event = l.log.Debug()
		if err != nil {
			event = event.Err(err)
		}
	default:
		return
	}

	sql, rows := fc()
	event.Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
}

// expected reports errors that callers turn into 404/409 responses.
func expected(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		isDuplicate(err) || isForeignKey(err)
}
