// Package notify delivers short user-facing status messages ("toasts").
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Toast struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(ctx context.Context, t Toast)
}

func Success(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Toast{Level: LevelSuccess, Message: msg})
}

func Error(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Toast{Level: LevelError, Message: msg})
}

func Info(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Toast{Level: LevelInfo, Message: msg})
}

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#8ec07c"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934")).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("#83a598"))
)

// TerminalNotifier prints toasts as single styled lines.
type TerminalNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

func (n *TerminalNotifier) Notify(_ context.Context, t Toast) {
	var line string
	switch t.Level {
	case LevelSuccess:
		line = styleSuccess.Render("✓ " + t.Message)
	case LevelError:
		line = styleError.Render("✗ " + t.Message)
	default:
		line = styleInfo.Render("• " + t.Message)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, line)
}

// LogNotifier records toasts in the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, t Toast) {
	if t.Level == LevelError {
		n.logger.WarnContext(ctx, "toast", "level", string(t.Level), "message", t.Message)
		return
	}
	n.logger.DebugContext(ctx, "toast", "level", string(t.Level), "message", t.Message)
}

// Multi fans a toast out to every notifier.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, t Toast) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, t)
		}
	}
}

// Recorder keeps every toast in memory. Useful for tests.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Notify(_ context.Context, t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast, or the zero Toast.
func (r *Recorder) Last() Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}
	}
	return r.toasts[len(r.toasts)-1]
}

// reportedError marks an error whose message the user has already seen.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported wraps err so callers further up know not to show it again.
func Reported(err error) error {
	if err == nil || IsReported(err) {
		return err
	}
	return &reportedError{err: err}
}

func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
