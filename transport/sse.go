package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/signadot/pjson/debug"
)

// DoneData is the data of the event which ends an SSE stream.
const DoneData = "[DONE]"

// EndEvent is the event name which ends an SSE stream.
const EndEvent = "end"

// SSE fetches a server sent event stream in which each event's data is one
// message line. The stream completes at "data: [DONE]", at an event named
// "end", or when the body ends.
type SSE struct {
	Client *http.Client
	Header http.Header
	Log    *slog.Logger
}

func (s *SSE) Fetch(ctx context.Context, url string, sink Sink) error {
	resp, err := get(ctx, s.Client, url, s.Header, "text/event-stream")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	log := logger(s.Log).With("url", url)
	log.Debug("event stream opened", "status", resp.StatusCode)
	err = ReadEvents(resp.Body, sink)
	if err != nil {
		return ctxErr(ctx, fmt.Errorf("read %s: %w", url, err))
	}
	return nil
}

// ReadEvents decodes server sent events from r, handing the data of each
// event followed by a newline to sink. Multiple data lines of one event
// are joined with newlines.
func ReadEvents(r io.Reader, sink Sink) error {
	br := bufio.NewReader(r)
	var (
		event string
		data  []string
	)
	dispatch := func() bool {
		defer func() {
			event = ""
			data = data[:0]
		}()
		if event == EndEvent {
			return true
		}
		if len(data) == 0 {
			return false
		}
		d := strings.Join(data, "\n")
		if d == DoneData {
			return true
		}
		if debug.Transport() {
			debug.Logf("event %q: %s\n", event, d)
		}
		sink.ProcessChunk([]byte(d + "\n"))
		return false
	}
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if dispatch() {
				return nil
			}
		case strings.HasPrefix(line, ":"):
		default:
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")
			switch field {
			case "data":
				data = append(data, value)
			case "event":
				event = value
			}
		}
		if eof {
			dispatch()
			return nil
		}
	}
}
