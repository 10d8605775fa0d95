// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// New returns a logger writing to w and the LevelVar controlling it.
//
// format is "text", "json" or "auto"; auto picks text when w is a terminal
// and JSON otherwise.
func New(w io.Writer, level, format string) (*slog.Logger, *slog.LevelVar, error) {
	levelVar := &slog.LevelVar{}
	if err := levelVar.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: levelVar}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), levelVar, nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), levelVar, nil
	case "auto", "":
		if IsTerminal(w) {
			return slog.New(slog.NewTextHandler(w, opts)), levelVar, nil
		}
		return slog.New(slog.NewJSONHandler(w, opts)), levelVar, nil
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", format)
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
