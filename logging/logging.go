/*
Copyright © 2025 debmatrix contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package logging provides the console logger used by the debmatrix CLI.
// Diagnostics go to stderr; query and command output destined for a CI
// pipeline goes to stdout through Output/Print so the two streams never mix.
// Logging should be done through the context-based functions (InfoContext,
// WarnContext, etc.) so the configured logger propagates with the command
// context.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents the severity of a log message.
type Level int

// OutputType represents the output format for log lines.
type OutputType int

// Output formats.
const (
	PlainOutput OutputType = iota
	ColorOutput
	JSONOutput
)

// Levels ordered from least to most severe for numeric comparison.
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Logger is a leveled console logger with quiet and verbose modes.
type Logger struct {
	mu         sync.Mutex
	minLevel   slog.Level
	outputType OutputType
	quiet      bool
	verbose    bool
	console    io.Writer
	stdout     io.Writer
}

// New creates a logger writing diagnostics to stderr and data to stdout.
func New(levelStr, format string, quiet, verbose bool) *Logger {
	level := ParseLevel(levelStr)
	if verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	outputType := PlainOutput
	switch format {
	case "color":
		outputType = ColorOutput
	case "json":
		outputType = JSONOutput
	}

	return &Logger{
		minLevel:   level,
		outputType: outputType,
		quiet:      quiet,
		verbose:    verbose,
		console:    os.Stderr,
		stdout:     os.Stdout,
	}
}

// ParseLevel converts a level string to a slog.Level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetQuiet enables or disables quiet mode. In quiet mode only errors are
// shown; structured query output suppresses log chatter this way.
func (l *Logger) SetQuiet(quiet bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiet = quiet
}

// SetConsole redirects diagnostic output, primarily for tests.
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

// SetStdout redirects data output, primarily for tests.
func (l *Logger) SetStdout(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stdout = w
}

func (l *Logger) formatMessage(level Level, format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	if l.outputType != ColorOutput {
		return fmt.Sprintf("[%s] %s", level, msg)
	}

	switch level {
	case DebugLevel:
		return color.HiBlackString("[DEBUG] %s", msg)
	case InfoLevel:
		return color.HiGreenString("[INFO] %s", msg)
	case WarnLevel:
		return color.HiYellowString("[WARN] %s", msg)
	case ErrorLevel:
		return color.HiRedString("[ERROR] %s", msg)
	default:
		return msg
	}
}

// shouldShowLocked must be called while holding l.mu.
func (l *Logger) shouldShowLocked(level Level) bool {
	if l.quiet {
		return level == ErrorLevel
	}
	if l.verbose || l.minLevel <= slog.LevelDebug {
		return true
	}
	return level >= InfoLevel
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.shouldShowLocked(level) || l.console == nil {
		return
	}

	if l.outputType == JSONOutput {
		line, err := json.Marshal(map[string]string{
			"time":  now.Format(time.RFC3339),
			"level": level.String(),
			"msg":   fmt.Sprintf(format, args...),
		})
		if err != nil {
			return
		}
		fmt.Fprintln(l.console, string(line))
		return
	}

	msg := l.formatMessage(level, format, args...)
	fmt.Fprintf(l.console, "[%s] %s\n", now.Format("2006-01-02 15:04:05"), msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WarnLevel, format, args...)
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// ErrorErr logs an error value directly without formatting.
func (l *Logger) ErrorErr(err error) {
	if err != nil {
		l.log(ErrorLevel, "%s", err.Error())
	}
}

// Output writes data to stdout followed by a newline. Use this for values a
// CI step consumes; it is never filtered by level or quiet mode.
func (l *Logger) Output(data string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.stdout, data)
}

// Print writes raw output to stdout without adding a newline.
func (l *Logger) Print(data string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.stdout, data)
}

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithLogger returns a new context carrying the provided logger.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from the context, or a default logger
// when the context carries none.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*Logger); ok && l != nil {
			return l
		}
	}
	return New("info", "plain", false, false)
}

// DebugContext logs a debug message using the logger from context.
func DebugContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Debug(format, args...)
}

// InfoContext logs an informational message using the logger from context.
func InfoContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Info(format, args...)
}

// WarnContext logs a warning message using the logger from context.
func WarnContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Warn(format, args...)
}

// ErrorfContext logs a formatted error message using the logger from context.
func ErrorfContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Errorf(format, args...)
}

// ErrorErrContext logs an error value using the logger from context.
func ErrorErrContext(ctx context.Context, err error) {
	FromContext(ctx).ErrorErr(err)
}

// OutputContext writes data to stdout using the logger from context.
func OutputContext(ctx context.Context, data string) {
	FromContext(ctx).Output(data)
}
