package message

import (
	"io"
	"net/http"
)

const (
	NDJSONContentType = "application/x-ndjson"
	SSEContentType    = "text/event-stream"
)

// Writer writes messages as NDJSON, flushing after each line when the
// underlying writer supports it.
type Writer struct {
	w io.Writer
	f http.Flusher
}

// NewWriter returns a Writer for w. When w is an http.ResponseWriter the
// streaming response headers are set; call NewWriter before writing
// anything else.
func NewWriter(w io.Writer) *Writer {
	if rw, ok := w.(http.ResponseWriter); ok {
		h := rw.Header()
		h.Set("Content-Type", NDJSONContentType)
		h.Set("Cache-Control", "no-cache")
		h.Set("X-Content-Type-Options", "nosniff")
	}
	f, _ := w.(http.Flusher)
	return &Writer{w: w, f: f}
}

func (w *Writer) Write(m *Message) error {
	d, err := m.MarshalJSON()
	if err != nil {
		return err
	}
	return w.writeLine(d)
}

// WriteRaw writes a preencoded line.
func (w *Writer) WriteRaw(line []byte) error {
	return w.writeLine(line)
}

func (w *Writer) writeLine(d []byte) error {
	if _, err := w.w.Write(append(d, '\n')); err != nil {
		return err
	}
	if w.f != nil {
		w.f.Flush()
	}
	return nil
}

// SSEWriter writes messages as server sent events, one "data:" frame per
// message, terminated by "data: [DONE]".
type SSEWriter struct {
	w io.Writer
	f http.Flusher
}

func NewSSEWriter(w io.Writer) *SSEWriter {
	if rw, ok := w.(http.ResponseWriter); ok {
		h := rw.Header()
		h.Set("Content-Type", SSEContentType)
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
	}
	f, _ := w.(http.Flusher)
	return &SSEWriter{w: w, f: f}
}

func (w *SSEWriter) Write(m *Message) error {
	d, err := m.MarshalJSON()
	if err != nil {
		return err
	}
	return w.frame(d)
}

// WriteRaw writes a preencoded line as one event.
func (w *SSEWriter) WriteRaw(line []byte) error {
	return w.frame(line)
}

// Done writes the terminating event.
func (w *SSEWriter) Done() error {
	return w.frame([]byte("[DONE]"))
}

func (w *SSEWriter) frame(d []byte) error {
	buf := make([]byte, 0, len(d)+8)
	buf = append(buf, "data: "...)
	buf = append(buf, d...)
	buf = append(buf, '\n', '\n')
	if _, err := w.w.Write(buf); err != nil {
		return err
	}
	if w.f != nil {
		w.f.Flush()
	}
	return nil
}
