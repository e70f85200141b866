package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm's log output to logrus. Statements slower than SlowThreshold
// are logged at warn level; the rest only at trace.
type GormLogger struct {
	logger        logrus.FieldLogger
	level         gormlogger.LogLevel
	SlowThreshold time.Duration
}

func NewGormLogger(logger logrus.FieldLogger) *GormLogger {
	return &GormLogger{
		logger:        logger.WithField("component", "gorm"),
		level:         gormlogger.Warn,
		SlowThreshold: 200 * time.Millisecond,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *GormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger.Infof(msg, args...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger.Warnf(msg, args...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger.Errorf(msg, args...)
	}
}

func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := l.logger.WithFields(logrus.Fields{
		"elapsed": elapsed.String(),
		"rows":    rows,
		"sql":     sql,
	})

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		entry.WithError(err).Error("query failed")
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.level >= gormlogger.Warn:
		entry.Warn("slow query")
	case l.level >= gormlogger.Info:
		entry.Trace("query")
	}
}
