// Package loggy is the hand-rolled logging side-channel used across
// diskimg: codec and decoder components accept a *Logger so they can
// report lenient-but-noteworthy conditions (truncated tracks, padded
// sectors, and similar recoverable anomalies) without forcing every
// caller to wire one up. A nil *Logger is always safe to call.
package loggy

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	ECHO       bool = false
	LogFolder  string = "./logs/"
	mu         sync.Mutex
	loggers    map[string]*Logger
)

// Logger writes timestamped lines for one named component, optionally
// mirroring them to an extra writer (ECHO mirrors to stderr regardless).
type Logger struct {
	component string
	file      *os.File
	extra     io.Writer
}

// Get returns (creating if necessary) the shared logger for component.
func Get(component string) *Logger {
	mu.Lock()
	defer mu.Unlock()
	if loggers == nil {
		loggers = make(map[string]*Logger)
	}
	l, ok := loggers[component]
	if !ok {
		l = NewLogger(component, nil)
		loggers[component] = l
	}
	return l
}

// NewLogger creates a standalone logger writing to a file under
// LogFolder, optionally also mirroring lines to extra.
func NewLogger(component string, extra io.Writer) *Logger {
	if component == "" {
		component = "diskimg"
	}

	if err := os.MkdirAll(LogFolder, 0755); err != nil {
		return &Logger{component: component, extra: extra}
	}

	filename := fmt.Sprintf("%s_%s.log", component, fts())
	f, _ := os.Create(LogFolder + filename)
	return &Logger{component: component, file: f, extra: extra}
}

func ts() string {
	t := time.Now()
	return fmt.Sprintf(
		"%.4d/%.2d/%.2d %.2d:%.2d:%.2d",
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
	)
}

func fts() string {
	t := time.Now()
	return fmt.Sprintf(
		"%.4d%.2d%.2d%.2d%.2d%.2d",
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
	)
}

func (l *Logger) write(designator, format string, v []interface{}) {
	if l == nil {
		return
	}

	line := ts() + " " + designator + " [" + l.component + "] :: " + fmt.Sprintf(format, v...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	if l.file != nil {
		l.file.WriteString(line)
		l.file.Sync()
	}
	if l.extra != nil {
		io.WriteString(l.extra, line)
	}
	if ECHO {
		os.Stderr.WriteString(line)
	}
}

func (l *Logger) Logf(format string, v ...interface{})   { l.write("INFO ", format, v) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.write("ERROR", format, v) }
func (l *Logger) Debugf(format string, v ...interface{}) { l.write("DEBUG", format, v) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.write("WARN ", format, v) }
