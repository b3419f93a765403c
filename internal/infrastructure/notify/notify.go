// Package notify adapts the builder's confirmation and notice ports to the
// terminal and the structured log.
package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	appservicepack "github.com/erp/servicepack/internal/application/servicepack"
	"go.uber.org/zap"
)

// Notice colors
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
)

var levelStyles = map[appservicepack.Level]lipgloss.Style{
	appservicepack.LevelInfo:    lipgloss.NewStyle().Foreground(colorBlue),
	appservicepack.LevelSuccess: lipgloss.NewStyle().Foreground(colorGreen),
	appservicepack.LevelWarning: lipgloss.NewStyle().Foreground(colorYellow),
	appservicepack.LevelError:   lipgloss.NewStyle().Foreground(colorRed).Bold(true),
}

var levelMarkers = map[appservicepack.Level]string{
	appservicepack.LevelInfo:    "i",
	appservicepack.LevelSuccess: "✓",
	appservicepack.LevelWarning: "!",
	appservicepack.LevelError:   "✗",
}

// LogNotifier writes notices to a zap logger
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger discards notices.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notice")}
}

// Notify logs message at the zap level matching level
func (n *LogNotifier) Notify(message string, level appservicepack.Level) {
	switch level {
	case appservicepack.LevelError:
		n.logger.Error(message)
	case appservicepack.LevelWarning:
		n.logger.Warn(message)
	default:
		n.logger.Info(message, zap.String("level", string(level)))
	}
}

// ConsoleNotifier prints colored one-line notices
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsoleNotifier creates a ConsoleNotifier writing to out
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

// Notify prints message prefixed with a level marker
func (n *ConsoleNotifier) Notify(message string, level appservicepack.Level) {
	style, ok := levelStyles[level]
	if !ok {
		style = levelStyles[appservicepack.LevelInfo]
	}
	marker := levelMarkers[level]
	if marker == "" {
		marker = levelMarkers[appservicepack.LevelInfo]
	}
	_, _ = fmt.Fprintln(n.out, style.Render(marker+" "+strings.TrimSpace(message)))
}

// Notifiers fans one notice out to several notifiers
type Notifiers []appservicepack.Notifier

// Notify forwards to every non-nil notifier in order
func (ns Notifiers) Notify(message string, level appservicepack.Level) {
	for _, n := range ns {
		if n != nil {
			n.Notify(message, level)
		}
	}
}
