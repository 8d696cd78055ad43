// Package logging provides the leveled logger used by issue-bot.
// Entries go to stderr so stdout stays reserved for the run result.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/runoshun/issue-bot/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger wraps a charmbracelet logger.
type Logger struct {
	base *log.Logger
}

// New creates a new Logger writing to w at the given level.
func New(w io.Writer, level log.Level) *Logger {
	base := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "issue-bot",
	})
	base.SetStyles(styles())
	return &Logger{base: base}
}

// styles returns the default styles with short, colored level badges.
func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.DebugLevel] = lipgloss.NewStyle().SetString("DEBU").Foreground(lipgloss.Color("63"))
	s.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("INFO").Foreground(lipgloss.Color("86"))
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Foreground(lipgloss.Color("192"))
	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERRO").
		Background(lipgloss.Color("204")).
		Foreground(lipgloss.Color("0"))
	s.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	s.Values["err"] = lipgloss.NewStyle().Bold(true)
	return s
}

// ParseLevel parses a log level string.
// Unknown values fall back to info.
func ParseLevel(levelStr string) log.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.base.Debug(msg, keyvals...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.base.Info(msg, keyvals...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.base.Warn(msg, keyvals...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.base.Error(msg, keyvals...)
}
