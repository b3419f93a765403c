package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, slow time.Duration) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, slow), recorded
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Info, 0)

	changed, ok := l.LogMode(gormlogger.Error).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Error, changed.logLevel)
	assert.Equal(t, gormlogger.Info, l.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return "SELECT * FROM service_templates", 2 }

	t.Run("logs errors with session id", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Warn, 0)
		ctx := WithSessionID(context.Background(), "sess-9")

		l.Trace(ctx, time.Now(), query, errors.New("connection reset"))

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "sess-9", entry.ContextMap()["session_id"])
		assert.Equal(t, "connection reset", entry.ContextMap()["error"])
	})

	t.Run("skips record not found", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Warn, 0)

		l.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("warns on slow queries", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Warn, time.Millisecond)

		l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "slow sql", recorded.All()[0].Message)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Silent, 0)

		l.Trace(context.Background(), time.Now(), query, errors.New("boom"))

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("info logs every query at debug", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Info, 0)

		l.Trace(context.Background(), time.Now(), query, nil)

		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, zapcore.DebugLevel, recorded.All()[0].Level)
		assert.Equal(t, int64(2), recorded.All()[0].ContextMap()["rows"])
	})
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
}
