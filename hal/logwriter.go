package hal

import (
	"bytes"
	"io"
	"sync"
)

type logWriter struct {
	mu      sync.Mutex
	l       Logger
	partial []byte
}

// LogWriter adapts a Logger to io.Writer. Each complete line becomes one
// WriteLineBytes call without its newline; a trailing partial line is held
// until the next write completes it.
func LogWriter(l Logger) io.Writer {
	return &logWriter{l: l}
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			w.partial = append(w.partial, p...)
			break
		}
		line := p[:i]
		if len(w.partial) > 0 {
			line = append(w.partial, line...)
			w.partial = w.partial[:0]
		}
		w.l.WriteLineBytes(bytes.TrimSuffix(line, []byte{'\r'}))
		p = p[i+1:]
	}
	return n, nil
}
