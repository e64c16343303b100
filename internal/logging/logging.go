package logging

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
	now func() time.Time
}

// Write buffers bytes until a newline is found; for each full line, write a timestamped
// line to the underlying writer. Partial lines are kept in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			// put the partial line back for the next write
			t.buf.WriteString(line)
			break
		}
		ts := t.now().Format(time.RFC3339)
		if _, err := t.w.Write([]byte(ts + " " + line)); err != nil {
			return n, err
		}
	}
	return n, nil
}

// terminalWriter wraps an io.Writer and exposes an Fd method so charm/log can
// detect a TTY through wrapped writers.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

// wrapTerminal lets charm/log see console's descriptor through w when console
// is a file.
func wrapTerminal(w io.Writer, console io.Writer) io.Writer {
	f, ok := console.(*os.File)
	if !ok {
		return w
	}
	return &terminalWriter{w: w, fd: f.Fd()}
}

// Options configures New.
type Options struct {
	// Out defaults to os.Stderr.
	Out io.Writer
	// LogFile, when set, receives a copy of every line.
	LogFile string
	Level   string
	Verbose bool
	Prefix  string
}

// New builds a timestamping logger. The returned close function releases the
// log file, if one was opened; it is never nil.
func New(opts Options) (*log.Logger, func() error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	console := out
	closer := func() error { return nil }
	var fileErr error
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			out = io.MultiWriter(out, f)
			closer = f.Close
		} else {
			fileErr = err
		}
	}

	logger := log.New(wrapTerminal(&timestampWriter{w: out, now: time.Now}, console))
	if opts.Prefix != "" {
		logger.SetPrefix(opts.Prefix)
	}

	level, known := ParseLevel(opts.Level)
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	if !known {
		logger.Warn("unknown log_level, defaulting to info", "provided", opts.Level)
	}
	if fileErr != nil {
		logger.Warn("log_file could not be opened; logging to stderr only", "path", opts.LogFile, "err", fileErr)
	}
	return logger, closer
}

// ParseLevel maps a config level name to a log level. Empty means info.
func ParseLevel(s string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	}
	return log.InfoLevel, false
}
