package godde

import (
	"fmt"
	"io"
	"strings"
)

// Logger accumulates messages during a solve and writes them to Output
// once the run finishes: step acceptance/rejection, discontinuity hits
// and event firings.
type Logger struct {
	Output io.Writer
	buff   strings.Builder
}

// Logf formats a message into the logger. Messages are flushed to Output
// when the solve finishes (or fails).
func (log *Logger) Logf(format string, a ...interface{}) {
	if log == nil {
		return
	}
	log.buff.WriteString(fmt.Sprintf(format, a...))
	log.buff.WriteByte('\n')
}

func (log *Logger) flush() {
	if log == nil || log.Output == nil {
		return
	}
	io.WriteString(log.Output, log.buff.String())
	log.buff.Reset()
}

func newLogger(w io.Writer) *Logger {
	return &Logger{Output: w}
}
