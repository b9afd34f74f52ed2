// Package logging builds the process logger: log/slog on top of a
// charmbracelet/log handler writing to stderr.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a slog.Logger that writes human-readable lines to w. Unknown
// levels fall back to warn.
func New(w io.Writer, level string) *slog.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.WarnLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "moneyplan",
		Level:           lvl,
	})
	return slog.New(handler)
}
