// Package log is the user-facing console output: one formatted line per
// file operation next to the structured zerolog stream.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// Display configuration.
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 45 // base width for file path
	formatWidth = 18 // width for format tag
	statusWidth = 15 // width for status text
)

// FileOperation represents one file's planned or finished transformation.
type FileOperation struct {
	Path     string // source path
	Format   string // format tag driving the pipeline choice
	Status   string // prepared / copied / substituted / failed
	IsFailed bool
	IsPassed bool // passthrough, content untouched
}

// Logger writes per-file lines to the console and mirrors every event into
// zerolog.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	files   int
}

// New creates a new logger.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// formatFileOperation formats a file operation for display.
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol string
	switch {
	case op.IsFailed:
		symbol = color.RedString("✗")
	case op.IsPassed:
		symbol = color.YellowString("-")
	default:
		symbol = color.GreenString("✓")
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		symbol,
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.CyanString(fmt.Sprintf("%-*s", formatWidth, op.Format)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// LogFileOperation logs a file operation.
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files++
	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("format", op.Format).
		Str("status", op.Status).
		Bool("failed", op.IsFailed).
		Msg("file operation")
}

// Header prints the batch header.
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("genanon")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// Success logs a success message.
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Success.Println(msg)
	l.zlog.Info().Msg(msg)
}

// Warning logs a warning message.
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Warning.Println(msg)
	l.zlog.Warn().Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Error.Println(msg)
	l.zlog.Error().Msg(msg)
}

// Successf logs a formatted success message.
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// Warningf logs a formatted warning message.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
