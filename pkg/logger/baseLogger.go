package logger

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// BaseLogger prefixes every line with a component tag, e.g. "[RankedProducts]".
// Lines go to the optional writer and are mirrored to the standard logger.
type BaseLogger struct {
	mu     sync.Mutex
	prefix string
	writer io.Writer
	quiet  bool
}

func NewLogger(writer io.Writer, prefix string) *BaseLogger {
	return &BaseLogger{
		writer: writer,
		prefix: prefix,
	}
}

// NewNopLogger drops everything. Used by tests and by callers that pass a nil logger.
func NewNopLogger() *BaseLogger {
	return &BaseLogger{quiet: true}
}

func (l *BaseLogger) Log(format string, v ...interface{}) {
	if l.quiet {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, v...)
	if l.prefix != "" {
		message = l.prefix + " " + message
	}
	if l.writer != nil {
		fmt.Fprintln(l.writer, message)
	}
	log.Print(message)
}

func (l *BaseLogger) WithPrefix(extraPrefix string) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	prefix := extraPrefix
	if l.prefix != "" {
		prefix = l.prefix + " " + extraPrefix
	}
	return &BaseLogger{
		writer: l.writer,
		prefix: prefix,
		quiet:  l.quiet,
	}
}

func (l *BaseLogger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

func (l *BaseLogger) SetWriter(writer io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = writer
}

// OrNop returns l, or a silent logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
