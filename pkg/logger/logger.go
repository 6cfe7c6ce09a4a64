package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// VerboseLevel represents the verbosity level for logging
type VerboseLevel int

const (
	// VerboseSilent means no verbose output
	VerboseSilent VerboseLevel = 0
	// VerboseNormal means standard verbose output (-v)
	VerboseNormal VerboseLevel = 1
	// VerboseVery means detailed debugging output (-vv)
	VerboseVery VerboseLevel = 2
)

// Logger handles console output at different levels and mirrors every
// message to an optional structured log file.
type Logger struct {
	level   VerboseLevel
	quiet   bool
	console io.Writer // nil means os.Stderr at call time
	file    zerolog.Logger
	mu      sync.Mutex
}

// NewLogger creates a new logger with the specified verbosity level
func NewLogger(level int) *Logger {
	return &Logger{level: VerboseLevel(level), file: zerolog.Nop()}
}

// NewWithWriter creates a logger that prints to w instead of stderr
func NewWithWriter(level int, w io.Writer) *Logger {
	l := NewLogger(level)
	l.console = w
	return l
}

// SetQuiet suppresses Info and Error console lines. File records are kept.
func (l *Logger) SetQuiet(quiet bool) {
	l.quiet = quiet
}

// SetFile attaches a structured JSON sink. Fields are added to every record.
func (l *Logger) SetFile(w io.Writer, fields map[string]string) {
	ctx := zerolog.New(w).With().Timestamp()
	for k, v := range fields {
		ctx = ctx.Str(k, v)
	}
	l.file = ctx.Logger()
}

// OpenFile opens (or creates) the log file at path and attaches it.
// The returned closer must be called when the run ends.
func (l *Logger) OpenFile(path string, fields map[string]string) (io.Closer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l.SetFile(f, fields)
	return f, nil
}

// IsVerbose returns true if verbose mode is enabled (-v or -vv)
func (l *Logger) IsVerbose() bool {
	return l.level >= VerboseNormal
}

// IsVeryVerbose returns true if very verbose mode is enabled (-vv)
func (l *Logger) IsVeryVerbose() bool {
	return l.level >= VerboseVery
}

func (l *Logger) out() io.Writer {
	if l.console != nil {
		return l.console
	}
	return os.Stderr
}

func (l *Logger) print(prefix, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out(), prefix+format+"\n", args...)
}

// V logs a message at verbose level (-v)
func (l *Logger) V(format string, args ...interface{}) {
	l.file.Info().Msgf(format, args...)
	if l.IsVerbose() {
		l.print("[*] ", format, args...)
	}
}

// VV logs a message at very verbose level (-vv)
func (l *Logger) VV(format string, args ...interface{}) {
	l.file.Debug().Msgf(format, args...)
	if l.IsVeryVerbose() {
		l.print("[VV] ", format, args...)
	}
}

// Info logs an informational message (always shown unless quiet)
func (l *Logger) Info(format string, args ...interface{}) {
	l.file.Info().Msgf(format, args...)
	if !l.quiet {
		l.print("[+] ", format, args...)
	}
}

// Warn logs a recoverable problem. Console output follows verbose mode.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.file.Warn().Msgf(format, args...)
	if l.IsVerbose() && !l.quiet {
		l.print("[!] ", format, args...)
	}
}

// Error logs an error message (always shown unless quiet)
func (l *Logger) Error(format string, args ...interface{}) {
	l.file.Error().Msgf(format, args...)
	if !l.quiet {
		l.print("[!] ", format, args...)
	}
}

// Section logs a section header for very verbose mode
func (l *Logger) Section(title string) {
	l.file.Debug().Str("section", title).Send()
	if l.IsVeryVerbose() {
		l.mu.Lock()
		defer l.mu.Unlock()
		fmt.Fprintf(l.out(), "\n[VV] === %s ===\n", title)
	}
}

// Detail logs a detail line for very verbose mode with indentation
func (l *Logger) Detail(format string, args ...interface{}) {
	l.file.Debug().Msgf(format, args...)
	if l.IsVeryVerbose() {
		l.print("[VV] → ", format, args...)
	}
}
