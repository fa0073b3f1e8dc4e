package logging

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// DefaultLogger writes human-readable lines to stderr. It is the fallback
// when no zap logger has been installed, e.g. in tests or library use.
type DefaultLogger struct {
	level  Level
	preset Fields
}

// NewDefaultLogger creates a console logger at InfoLevel
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{level: InfoLevel}
}

func (d *DefaultLogger) log(level Level, msg string, err error, fields []Fields) {
	if level < d.level {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02T15:04:05.000"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)

	if err != nil {
		b.WriteString(" error=")
		b.WriteString(err.Error())
	}

	merged := make(Fields, len(d.preset))
	for k, v := range d.preset {
		merged[k] = v
	}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, merged[k])
	}

	fmt.Fprintln(os.Stderr, b.String())
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, msg, nil, fields)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, msg, nil, fields)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, msg, nil, fields)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, msg, err, fields)
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.log(FatalLevel, msg, err, fields)
	os.Exit(1)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(d.preset)+len(fields))
	for k, v := range d.preset {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &DefaultLogger{level: d.level, preset: merged}
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.level = level
}
