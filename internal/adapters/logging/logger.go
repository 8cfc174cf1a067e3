// Package logging provides the leveled log sink for the automation. It
// writes workflow commands (::group::, ::debug::) so the hosting runner
// renders collapsible sections, and degrades to indentation when command
// output is disabled.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github-issue-automation/internal/ports"
)

// Ensure Logger implements the ports.Logger interface.
var _ ports.Logger = (*Logger)(nil)

// Level orders log verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelVerbose
	LevelInfo
)

// ParseLevel parses a log level string, defaulting to info.
func ParseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "verbose":
		return LevelVerbose
	case "info":
		return LevelInfo
	default:
		return LevelInfo
	}
}

// Logger writes leveled, groupable output to one writer.
type Logger struct {
	w        io.Writer
	level    Level
	commands bool

	mu    sync.Mutex
	depth int
}

// Option configures a Logger.
type Option func(*Logger)

// WithWriter redirects output, for tests.
func WithWriter(w io.Writer) Option {
	return func(l *Logger) { l.w = w }
}

// WithoutCommands disables workflow command output; groups render as
// indentation instead.
func WithoutCommands() Option {
	return func(l *Logger) { l.commands = false }
}

// New creates a logger at the given level writing to stdout.
func New(level Level, opts ...Option) *Logger {
	l := &Logger{
		w:        os.Stdout,
		level:    level,
		commands: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Logger) write(line string) {
	fmt.Fprint(l.w, strings.Repeat("  ", l.depth), line, "\n")
}

// Debug logs at debug level. With commands enabled the line uses the
// ::debug:: workflow command so the runner hides it unless step debugging
// is on.
func (l *Logger) Debug(format string, args ...any) {
	if l.level > LevelDebug {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if l.commands {
		fmt.Fprintf(l.w, "::debug::%s\n", msg)
		return
	}
	l.write("DEBUG " + msg)
}

// Verbose logs at verbose level.
func (l *Logger) Verbose(format string, args ...any) {
	if l.level > LevelVerbose {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(fmt.Sprintf(format, args...))
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(fmt.Sprintf(format, args...))
}

// Group opens a collapsible section in the workflow log.
func (l *Logger) Group(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.commands {
		fmt.Fprintf(l.w, "::group::%s\n", name)
		return
	}
	l.write(name)
	l.depth++
}

// EndGroup closes the innermost section.
func (l *Logger) EndGroup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.commands {
		fmt.Fprintln(l.w, "::endgroup::")
		return
	}
	if l.depth > 0 {
		l.depth--
	}
}
