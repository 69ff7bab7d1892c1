package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/signadot/pjson/debug"
)

const defaultBufSize = 32 << 10

// HTTP fetches a chunked NDJSON response body.
type HTTP struct {
	Client *http.Client
	Header http.Header
	// BufSize bounds the size of each chunk handed to the sink.
	BufSize int
	Log     *slog.Logger
}

func (h *HTTP) Fetch(ctx context.Context, url string, sink Sink) error {
	resp, err := get(ctx, h.Client, url, h.Header, "application/x-ndjson")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	log := logger(h.Log).With("url", url)
	log.Debug("stream opened", "status", resp.StatusCode)

	size := h.BufSize
	if size <= 0 {
		size = defaultBufSize
	}
	buf := make([]byte, size)
	total := 0
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			total += n
			if debug.Transport() {
				debug.Logf("chunk %d bytes from %s\n", n, url)
			}
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			sink.ProcessChunk(chunk)
		}
		if errors.Is(err, io.EOF) {
			log.Debug("stream closed", "bytes", total)
			return nil
		}
		if err != nil {
			return ctxErr(ctx, fmt.Errorf("read %s: %w", url, err))
		}
	}
}

func get(ctx context.Context, client *http.Client, url string, header http.Header, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", accept)
	}
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, ctxErr(ctx, fmt.Errorf("get %s: %w", url, err))
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	return resp, nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
