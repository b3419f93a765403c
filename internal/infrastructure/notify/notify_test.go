package notify

import (
	"bytes"
	"strings"
	"testing"

	appservicepack "github.com/erp/servicepack/internal/application/servicepack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogNotifier_Notify(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := NewLogNotifier(zap.New(core))

	n.Notify("saved", appservicepack.LevelSuccess)
	n.Notify("declined", appservicepack.LevelWarning)
	n.Notify("storage down", appservicepack.LevelError)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "saved", entries[0].Message)
	assert.Equal(t, "success", entries[0].ContextMap()["level"])
	assert.Equal(t, "notice", entries[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestLogNotifier_NilLogger(t *testing.T) {
	n := NewLogNotifier(nil)
	assert.NotPanics(t, func() { n.Notify("ignored", appservicepack.LevelInfo) })
}

func TestConsoleNotifier_Notify(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier(&buf)

	n.Notify("  Service package PM-500 saved ", appservicepack.LevelSuccess)
	n.Notify("unknown level", appservicepack.Level("debug"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "✓ Service package PM-500 saved")
	assert.Contains(t, lines[1], "i unknown level")
}

func TestNotifiers_FanOut(t *testing.T) {
	var got []string
	record := appservicepack.NotifyFunc(func(message string, level appservicepack.Level) {
		got = append(got, string(level)+":"+message)
	})

	Notifiers{record, nil, record}.Notify("done", appservicepack.LevelInfo)

	assert.Equal(t, []string{"info:done", "info:done"}, got)
}
