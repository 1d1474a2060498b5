package cliexit

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
)

// Level mirrors the CLI's --verbosity-level contract: 0=error, 1=warn,
// 2=info, 3=debug, 4 or higher=trace.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Logger is a verbosity-gated wrapper over the standard library's log
// package. No third-party structured-logging library appears anywhere in
// the example pack this tool was grounded on, so none is introduced here;
// level-tag coloring instead reuses fatih/color the way the teacher
// colorizes terminal output, and respects NO_COLOR like it does.
type Logger struct {
	out     *log.Logger
	level   Level
	quiet   bool
	colored bool
}

// New creates a Logger writing to w, active up to the given verbosity
// level. If quiet is true, every level is suppressed.
func New(w io.Writer, verbosity int, quiet bool) *Logger {
	level := Level(verbosity)
	if level > LevelTrace {
		level = LevelTrace
	}
	return &Logger{
		out:     log.New(w, "", 0),
		level:   level,
		quiet:   quiet,
		colored: os.Getenv("NO_COLOR") == "",
	}
}

func (l *Logger) tag(level Level, label string, colorFn func(format string, a ...any) string) string {
	if !l.colored {
		return fmt.Sprintf("[%s]", label)
	}
	return colorFn("[%s]", label)
}

func (l *Logger) logf(level Level, label string, colorFn func(string, ...any) string, format string, args ...any) {
	if l.quiet || level > l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.out.Printf("%s %s", l.tag(level, label, colorFn), msg)
}

func (l *Logger) Error(format string, args ...any) {
	l.logf(LevelError, "error", color.RedString, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.logf(LevelWarn, "warn", color.YellowString, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.logf(LevelInfo, "info", color.CyanString, format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.logf(LevelDebug, "debug", color.BlueString, format, args...)
}

func (l *Logger) Trace(format string, args ...any) {
	l.logf(LevelTrace, "trace", color.HiBlackString, format, args...)
}
